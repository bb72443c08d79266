package core

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agenthands/casefile/internal/core/assistant"
	"github.com/agenthands/casefile/internal/core/dedupe"
	"github.com/agenthands/casefile/internal/core/export"
	"github.com/agenthands/casefile/internal/core/filter"
	"github.com/agenthands/casefile/internal/core/model"
	"github.com/agenthands/casefile/internal/core/projection"
	"github.com/agenthands/casefile/internal/core/registry"
	"github.com/agenthands/casefile/internal/core/store"
	"github.com/agenthands/casefile/internal/llm"
	"github.com/agenthands/casefile/internal/logger"
)

// Extractor is the document-understanding oracle.
type Extractor interface {
	Analyze(ctx context.Context, doc llm.Document) (model.AnalysisResult, error)
}

// Assistant is the conversational oracle. It never fails.
type Assistant interface {
	Ask(ctx context.Context, query string, files []assistant.ContextFile) string
}

// Mirror receives the full board after every analyzed document.
type Mirror interface {
	Sync(ctx context.Context, board model.Board) error
	Clear(ctx context.Context) error
}

// Upload is one file handed to Submit. Open is called by the pipeline when
// the file's turn comes.
type Upload struct {
	Name     string
	MimeType string
	Open     func() (io.ReadCloser, error)
}

type job struct {
	id         string
	name       string
	mimeType   string
	open       func() (io.ReadCloser, error)
	generation uint64
}

// Workspace is the session state: case files, merged entities and filters.
//
// All state is guarded by mu. Documents are analyzed by the single goroutine
// running Run, one at a time in upload order, so merges never interleave.
type Workspace struct {
	Extractor Extractor
	Assistant Assistant
	Mirror    Mirror

	mu         sync.RWMutex
	registry   *registry.Registry
	store      *store.Store
	merger     *dedupe.Merger
	filters    *filter.State
	generation uint64

	queueMu sync.Mutex
	queue   []job
	wake    chan struct{}
	pending sync.WaitGroup

	mirrorMu sync.Mutex
}

func NewWorkspace(extractor Extractor, asst Assistant, mirror Mirror) *Workspace {
	s := store.New()
	return &Workspace{
		Extractor: extractor,
		Assistant: asst,
		Mirror:    mirror,
		registry:  registry.New(),
		store:     s,
		merger:    dedupe.NewMerger(s),
		filters:   filter.New(),
		wake:      make(chan struct{}, 1),
	}
}

// Submit registers every upload as pending, in order, and queues them for
// analysis. It returns immediately.
func (w *Workspace) Submit(uploads ...Upload) []model.CaseFile {
	w.mu.Lock()
	files := make([]model.CaseFile, 0, len(uploads))
	jobs := make([]job, 0, len(uploads))
	for _, u := range uploads {
		f := w.registry.Register(u.Name, u.MimeType, nil)
		files = append(files, f)
		jobs = append(jobs, job{
			id:         f.ID,
			name:       u.Name,
			mimeType:   u.MimeType,
			open:       u.Open,
			generation: w.generation,
		})
	}
	w.mu.Unlock()

	w.queueMu.Lock()
	w.pending.Add(len(jobs))
	w.queue = append(w.queue, jobs...)
	w.queueMu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}

	logger.Info("files queued", "count", len(files))
	return files
}

// Run processes queued documents until ctx is cancelled.
func (w *Workspace) Run(ctx context.Context) error {
	defer w.dropQueue()

	for {
		j, ok := w.next()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.wake:
				continue
			}
		}
		w.process(ctx, j)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Wait blocks until every submitted document has been processed or dropped.
func (w *Workspace) Wait() {
	w.pending.Wait()
}

func (w *Workspace) next() (job, bool) {
	w.queueMu.Lock()
	defer w.queueMu.Unlock()
	if len(w.queue) == 0 {
		return job{}, false
	}
	j := w.queue[0]
	w.queue = w.queue[1:]
	return j, true
}

func (w *Workspace) dropQueue() {
	w.queueMu.Lock()
	dropped := len(w.queue)
	w.queue = nil
	w.queueMu.Unlock()

	for i := 0; i < dropped; i++ {
		w.pending.Done()
	}
}

// dropStaleLocked removes queued jobs of earlier sessions. The caller holds mu,
// so jobs submitted for the current session are never dropped.
func (w *Workspace) dropStaleLocked() {
	w.queueMu.Lock()
	kept := w.queue[:0]
	dropped := 0
	for _, j := range w.queue {
		if j.generation == w.generation {
			kept = append(kept, j)
			continue
		}
		dropped++
	}
	w.queue = kept
	w.queueMu.Unlock()

	for i := 0; i < dropped; i++ {
		w.pending.Done()
	}
}

func (w *Workspace) process(ctx context.Context, j job) {
	defer w.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("analysis panicked", "file", j.id, "panic", r)
			w.fail(j, fmt.Sprintf("analysis panicked: %v", r))
		}
	}()

	start := time.Now()
	logger.Info("analyzing file", "file", j.id, "name", j.name)

	data, err := readUpload(j)
	if err != nil {
		w.fail(j, err.Error())
		return
	}

	if !w.begin(j, data) {
		return
	}

	result, err := w.Extractor.Analyze(ctx, llm.Document{Name: j.name, MimeType: j.mimeType, Data: data})
	if err != nil {
		w.fail(j, err.Error())
		return
	}

	stats, ok := w.commit(j, result)
	if !ok {
		return
	}

	logger.Info("file analyzed",
		"file", j.id,
		"created", stats.Created,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"took", time.Since(start).Round(time.Millisecond),
	)
	w.syncMirror(ctx)
}

// begin stores the bytes and marks the file analyzing. It reports false when
// the job belongs to an old session or the file cannot start.
func (w *Workspace) begin(j job, data []byte) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if j.generation != w.generation {
		return false
	}
	_ = w.registry.SetData(j.id, data)
	if err := w.registry.MarkAnalyzing(j.id); err != nil {
		logger.Warn("cannot start analysis", "file", j.id, "err", err)
		return false
	}
	return true
}

// commit merges the result and marks the file analyzed in one critical
// section. The deferred unlock keeps mu free if the merge panics.
func (w *Workspace) commit(j job, result model.AnalysisResult) (model.MergeStats, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if j.generation != w.generation {
		return model.MergeStats{}, false
	}
	stats := w.merger.Merge(j.id, result.Entities)
	if err := w.registry.MarkAnalyzed(j.id, result.Summary); err != nil {
		logger.Warn("cannot complete analysis", "file", j.id, "err", err)
	}
	return stats, true
}

func readUpload(j job) ([]byte, error) {
	if j.open == nil {
		return nil, fmt.Errorf("read failed: no content for %s", j.name)
	}
	rc, err := j.open()
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	return data, nil
}

func (w *Workspace) fail(j job, reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if j.generation != w.generation {
		return
	}
	if err := w.registry.MarkError(j.id, reason); err != nil {
		logger.Debug("cannot mark file as failed", "file", j.id, "err", err)
		return
	}
	logger.Warn("file analysis failed", "file", j.id, "reason", reason)
}

func (w *Workspace) syncMirror(ctx context.Context) {
	if w.Mirror == nil {
		return
	}
	w.mirrorMu.Lock()
	defer w.mirrorMu.Unlock()

	w.mu.RLock()
	files, entities := w.registry.List(), w.store.Snapshot()
	w.mu.RUnlock()

	if err := w.Mirror.Sync(ctx, projection.Board(files, entities, filter.AllVisible())); err != nil {
		logger.Warn("graph mirror sync failed", "err", err)
	}
}

// Files lists case files in upload order.
func (w *Workspace) Files() []model.CaseFile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.registry.List()
}

func (w *Workspace) File(id string) (model.CaseFile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.registry.Get(id)
}

// Entities lists merged entities in first-seen order.
func (w *Workspace) Entities() []model.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.store.Snapshot()
}

func (w *Workspace) Filters() filter.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.filters.Snapshot()
}

// ToggleFilter flips one category and returns its new visibility.
func (w *Workspace) ToggleFilter(c model.Category) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filters.Toggle(c)
}

func (w *Workspace) snapshot() ([]model.CaseFile, []model.Entity, filter.Snapshot) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.registry.List(), w.store.Snapshot(), w.filters.Snapshot()
}

// Board projects the current state for the graph view.
func (w *Workspace) Board() model.Board {
	files, entities, filters := w.snapshot()
	return projection.Board(files, entities, filters)
}

// Timeline projects the current DATE entities in chronological order.
func (w *Workspace) Timeline() []model.TimelineEntry {
	return projection.Timeline(w.Entities())
}

// Ask answers query from the analyzed documents only.
func (w *Workspace) Ask(ctx context.Context, query string) string {
	files, entities, _ := w.snapshot()
	return w.Assistant.Ask(ctx, query, assistant.BuildContext(files, entities))
}

// Export builds the download artifact stamped with now.
func (w *Workspace) Export(now time.Time) export.Document {
	files, entities, _ := w.snapshot()
	return export.Build(files, entities, now)
}

// Reset starts a new session. Documents still queued or in flight from the
// old session are discarded without touching the new one.
func (w *Workspace) Reset(ctx context.Context) {
	w.mu.Lock()
	w.generation++
	w.registry.Reset()
	w.store.Reset()
	w.filters.Reset()
	w.dropStaleLocked()
	w.mu.Unlock()

	if w.Mirror != nil {
		w.mirrorMu.Lock()
		if err := w.Mirror.Clear(ctx); err != nil {
			logger.Warn("graph mirror clear failed", "err", err)
		}
		w.mirrorMu.Unlock()
	}
	logger.Info("session reset")
}
