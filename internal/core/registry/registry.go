// Package registry tracks uploaded case files and their processing status.
package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/casefile/internal/core/model"
)

var (
	ErrNotFound          = errors.New("case file not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Registry keeps case files in upload order. Like the entity store it relies
// on its owner for synchronisation.
type Registry struct {
	files []*model.CaseFile
	byID  map[string]*model.CaseFile
	now   func() time.Time
	newID func() string
}

func New() *Registry {
	return &Registry{
		byID:  make(map[string]*model.CaseFile),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Register appends a pending case file and returns a copy of it.
func (r *Registry) Register(name, mimeType string, data []byte) model.CaseFile {
	f := &model.CaseFile{
		ID:         r.newID(),
		Name:       name,
		MimeType:   mimeType,
		Data:       data,
		Size:       len(data),
		UploadedAt: r.now().UTC(),
		Status:     model.FileStatusPending,
	}
	r.files = append(r.files, f)
	r.byID[f.ID] = f
	return *f
}

// SetData retains the bytes read for a file.
func (r *Registry) SetData(id string, data []byte) error {
	f, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	f.Data = data
	f.Size = len(data)
	return nil
}

func (r *Registry) MarkAnalyzing(id string) error {
	return r.transition(id, model.FileStatusAnalyzing, func(*model.CaseFile) {})
}

func (r *Registry) MarkAnalyzed(id, summary string) error {
	return r.transition(id, model.FileStatusAnalyzed, func(f *model.CaseFile) {
		f.Summary = summary
	})
}

func (r *Registry) MarkError(id, reason string) error {
	return r.transition(id, model.FileStatusError, func(f *model.CaseFile) {
		f.Error = reason
	})
}

func (r *Registry) transition(id string, next model.FileStatus, apply func(*model.CaseFile)) error {
	f, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !f.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s for %s", ErrInvalidTransition, f.Status, next, id)
	}
	f.Status = next
	apply(f)
	return nil
}

// Get returns a copy of the case file.
func (r *Registry) Get(id string) (model.CaseFile, bool) {
	f, ok := r.byID[id]
	if !ok {
		return model.CaseFile{}, false
	}
	return *f, true
}

func (r *Registry) Exists(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// IsAnalyzed reports whether id is known and analyzed.
func (r *Registry) IsAnalyzed(id string) bool {
	f, ok := r.byID[id]
	return ok && f.Status == model.FileStatusAnalyzed
}

// List returns copies of every case file in upload order. Raw bytes are shared
// with the registry and must not be modified.
func (r *Registry) List() []model.CaseFile {
	out := make([]model.CaseFile, len(r.files))
	for i, f := range r.files {
		out[i] = *f
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.files)
}

func (r *Registry) Reset() {
	r.files = nil
	r.byID = make(map[string]*model.CaseFile)
}
