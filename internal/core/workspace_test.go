package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/casefile/internal/core/assistant"
	"github.com/agenthands/casefile/internal/core/dedupe"
	"github.com/agenthands/casefile/internal/core/model"
)

func extracted(name string, c model.Category, snippet string) model.ExtractedEntity {
	return model.ExtractedEntity{Name: name, Category: string(c), Context: snippet}
}

func startWorkspace(t *testing.T, ext Extractor, mirror Mirror) (*Workspace, *MockAssistant) {
	t.Helper()
	asst := &MockAssistant{Answer: "42"}
	w := NewWorkspace(ext, asst, mirror)
	run(t, w)
	return w, asst
}

func run(t *testing.T, w *Workspace) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func waitWithin(t *testing.T, w *Workspace, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("pipeline did not drain")
	}
}

func statuses(files []model.CaseFile) []model.FileStatus {
	out := make([]model.FileStatus, len(files))
	for i, f := range files {
		out[i] = f.Status
	}
	return out
}

func TestWorkspaceProcessesSequentiallyInUploadOrder(t *testing.T) {
	ext := &MockExtractor{
		Delay: 5 * time.Millisecond,
		Results: map[string]model.AnalysisResult{
			"a.txt": {Summary: "A", Entities: []model.ExtractedEntity{extracted("Jane Doe", model.CategoryPerson, "first")}},
			"b.txt": {Summary: "B", Entities: []model.ExtractedEntity{extracted("jane doe ", model.CategoryPerson, "second")}},
			"c.txt": {Summary: "C", Entities: []model.ExtractedEntity{extracted("Acme", model.CategoryOrganization, "")}},
		},
	}
	w, _ := startWorkspace(t, ext, nil)

	files := w.Submit(textUpload("a.txt", "x"), textUpload("b.txt", "y"), textUpload("c.txt", "z"))
	require.Len(t, files, 3)
	for _, f := range files {
		assert.Equal(t, model.FileStatusPending, f.Status)
	}
	w.Wait()

	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, ext.CallNames())
	assert.EqualValues(t, 1, ext.MaxSeen)

	got := w.Files()
	assert.Equal(t, []model.FileStatus{model.FileStatusAnalyzed, model.FileStatusAnalyzed, model.FileStatusAnalyzed}, statuses(got))
	assert.Equal(t, "A", got[0].Summary)

	entities := w.Entities()
	require.Len(t, entities, 2)
	assert.Equal(t, "Jane Doe", entities[0].Name)
	assert.Equal(t, "first", entities[0].Context)
	assert.Equal(t, []string{files[0].ID, files[1].ID}, entities[0].SourceDocIDs)
}

func TestWorkspaceIsolatesFailures(t *testing.T) {
	ext := &MockExtractor{
		Results: map[string]model.AnalysisResult{
			"good.txt": {Summary: "ok", Entities: []model.ExtractedEntity{extracted("Acme", model.CategoryOrganization, "")}},
		},
		Errors: map[string]error{"bad.txt": errors.New("model refused")},
	}
	w, _ := startWorkspace(t, ext, nil)

	files := w.Submit(brokenUpload("gone.txt"), textUpload("bad.txt", "x"), textUpload("good.txt", "y"))
	w.Wait()

	got := w.Files()
	assert.Equal(t, []model.FileStatus{model.FileStatusError, model.FileStatusError, model.FileStatusAnalyzed}, statuses(got))
	assert.Contains(t, got[0].Error, "disk gone")
	assert.Contains(t, got[1].Error, "model refused")

	// The unreadable file never reached the oracle.
	assert.Equal(t, []string{"bad.txt", "good.txt"}, ext.CallNames())

	entities := w.Entities()
	require.Len(t, entities, 1)
	assert.Equal(t, []string{files[2].ID}, entities[0].SourceDocIDs)
}

func TestWorkspaceHidesUnanalyzedWork(t *testing.T) {
	gate := make(chan struct{})
	ext := &MockExtractor{
		Gate: gate,
		Results: map[string]model.AnalysisResult{
			"a.txt": {Summary: "A", Entities: []model.ExtractedEntity{extracted("Acme", model.CategoryOrganization, "")}},
		},
	}
	w, asst := startWorkspace(t, ext, nil)

	files := w.Submit(textUpload("a.txt", "x"))
	require.Eventually(t, func() bool {
		f, ok := w.File(files[0].ID)
		return ok && f.Status == model.FileStatusAnalyzing
	}, time.Second, time.Millisecond)

	board := w.Board()
	assert.Empty(t, board.Nodes)
	assert.Empty(t, board.Links)
	w.Ask(context.Background(), "anything?")
	assert.Empty(t, asst.LastCtx)

	close(gate)
	w.Wait()

	board = w.Board()
	assert.Len(t, board.Nodes, 2)
	assert.Len(t, board.Links, 1)
	w.Ask(context.Background(), "anything?")
	assert.Equal(t, []assistant.ContextFile{{Name: "a.txt", Summary: "A", ExtractedData: "Acme (ORGANIZATION)"}}, asst.LastCtx)
}

func TestWorkspaceFiltersBoardButNotTimeline(t *testing.T) {
	ext := &MockExtractor{
		Results: map[string]model.AnalysisResult{
			"a.txt": {Summary: "A", Entities: []model.ExtractedEntity{
				{Name: "March 3, 2021", Category: "DATE", NormalizedDate: "2021-03-03"},
				extracted("Jane", model.CategoryPerson, ""),
			}},
		},
	}
	w, _ := startWorkspace(t, ext, nil)
	w.Submit(textUpload("a.txt", "x"))
	w.Wait()

	assert.False(t, w.ToggleFilter(model.CategoryDate))
	assert.False(t, w.Filters()[model.CategoryDate])

	board := w.Board()
	assert.Len(t, board.Nodes, 2)
	for _, n := range board.Nodes {
		assert.NotEqual(t, string(model.CategoryDate), n.Type)
	}
	assert.Len(t, w.Timeline(), 1)
}

func TestWorkspaceResetDropsOldSession(t *testing.T) {
	gate := make(chan struct{})
	ext := &MockExtractor{
		Gate: gate,
		Results: map[string]model.AnalysisResult{
			"old.txt":    {Summary: "old", Entities: []model.ExtractedEntity{extracted("Old", model.CategoryPerson, "")}},
			"queued.txt": {Summary: "queued"},
		},
	}
	mirror := &MockMirror{}
	w, _ := startWorkspace(t, ext, mirror)

	files := w.Submit(textUpload("old.txt", "x"), textUpload("queued.txt", "y"))
	require.Eventually(t, func() bool {
		f, _ := w.File(files[0].ID)
		return f.Status == model.FileStatusAnalyzing
	}, time.Second, time.Millisecond)

	w.ToggleFilter(model.CategoryPerson)
	w.Reset(context.Background())
	close(gate)
	w.Wait()

	assert.Empty(t, w.Files())
	assert.Empty(t, w.Entities())
	assert.True(t, w.Filters()[model.CategoryPerson])
	assert.Equal(t, []string{"old.txt"}, ext.CallNames())
	assert.Equal(t, 1, mirror.Clears)
	assert.Empty(t, mirror.Boards)
}

func TestWorkspaceSyncsMirrorAfterAnalysis(t *testing.T) {
	ext := &MockExtractor{
		Results: map[string]model.AnalysisResult{
			"a.txt": {Summary: "A", Entities: []model.ExtractedEntity{extracted("Acme", model.CategoryOrganization, "")}},
		},
		Errors: map[string]error{"b.txt": errors.New("nope")},
	}
	mirror := &MockMirror{Err: errors.New("mirror offline")}
	w, _ := startWorkspace(t, ext, mirror)

	w.Submit(textUpload("a.txt", "x"), textUpload("b.txt", "y"))
	w.Wait()

	require.Len(t, mirror.Boards, 1)
	assert.Len(t, mirror.Boards[0].Nodes, 2)
	assert.Equal(t, model.FileStatusAnalyzed, w.Files()[0].Status)
}

func TestWorkspaceExport(t *testing.T) {
	ext := &MockExtractor{
		Results: map[string]model.AnalysisResult{"a.txt": {Summary: "A"}},
		Errors:  map[string]error{"b.txt": errors.New("nope")},
	}
	w, _ := startWorkspace(t, ext, nil)

	w.Submit(textUpload("a.txt", "x"), textUpload("b.txt", "y"))
	w.Wait()

	doc := w.Export(time.UnixMilli(1700000000000))
	require.Len(t, doc.Files, 2)
	require.NotNil(t, doc.Files[0].Summary)
	assert.Equal(t, "A", *doc.Files[0].Summary)
	assert.Nil(t, doc.Files[1].Summary)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", doc.Timestamp)
}

func TestWorkspaceResetKeepsUploadsOfNewSession(t *testing.T) {
	ext := &MockExtractor{
		Results: map[string]model.AnalysisResult{
			"old.txt": {Summary: "old"},
			"new.txt": {Summary: "new"},
		},
	}
	w := NewWorkspace(ext, &MockAssistant{}, nil)

	w.Submit(textUpload("old.txt", "x"))

	// An upload lands between the session switch and the queue cleanup.
	w.mu.Lock()
	w.generation++
	w.registry.Reset()
	w.mu.Unlock()
	files := w.Submit(textUpload("new.txt", "y"))

	w.mu.Lock()
	w.dropStaleLocked()
	w.mu.Unlock()

	run(t, w)
	waitWithin(t, w, time.Second)

	f, ok := w.File(files[0].ID)
	require.True(t, ok)
	assert.Equal(t, model.FileStatusAnalyzed, f.Status)
	assert.Equal(t, []string{"new.txt"}, ext.CallNames())
}

func TestWorkspaceRecoversFromMergePanic(t *testing.T) {
	ext := &MockExtractor{
		Results: map[string]model.AnalysisResult{
			"a.txt": {Summary: "A", Entities: []model.ExtractedEntity{extracted("Acme", model.CategoryOrganization, "")}},
		},
	}
	w := NewWorkspace(ext, &MockAssistant{}, nil)
	w.merger = dedupe.NewMerger(nil)
	run(t, w)

	files := w.Submit(textUpload("a.txt", "x"))
	waitWithin(t, w, time.Second)

	f, ok := w.File(files[0].ID)
	require.True(t, ok)
	assert.Equal(t, model.FileStatusError, f.Status)
	assert.Contains(t, f.Error, "panicked")
}
