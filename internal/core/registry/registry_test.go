package registry

import (
	"testing"

	"github.com/agenthands/casefile/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsPendingAndUniqueIDs(t *testing.T) {
	r := New()

	a := r.Register("a.pdf", "application/pdf", nil)
	b := r.Register("b.txt", "text/plain", []byte("hello"))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, model.FileStatusPending, a.Status)
	assert.Equal(t, 5, b.Size)
	assert.False(t, a.UploadedAt.IsZero())

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a.pdf", list[0].Name)
	assert.Equal(t, "b.txt", list[1].Name)
}

func TestForwardTransitions(t *testing.T) {
	r := New()
	f := r.Register("doc.txt", "text/plain", nil)

	require.NoError(t, r.MarkAnalyzing(f.ID))
	require.NoError(t, r.MarkAnalyzed(f.ID, "a summary"))

	got, ok := r.Get(f.ID)
	require.True(t, ok)
	assert.Equal(t, model.FileStatusAnalyzed, got.Status)
	assert.Equal(t, "a summary", got.Summary)
	assert.True(t, r.IsAnalyzed(f.ID))
}

func TestPendingCanFailDirectly(t *testing.T) {
	r := New()
	f := r.Register("unreadable.bin", "application/octet-stream", nil)

	require.NoError(t, r.MarkError(f.ID, "read failed"))

	got, _ := r.Get(f.ID)
	assert.Equal(t, model.FileStatusError, got.Status)
	assert.Equal(t, "read failed", got.Error)
}

func TestNoRegression(t *testing.T) {
	r := New()
	f := r.Register("doc.txt", "text/plain", nil)
	require.NoError(t, r.MarkAnalyzing(f.ID))
	require.NoError(t, r.MarkAnalyzed(f.ID, "summary"))

	assert.ErrorIs(t, r.MarkAnalyzing(f.ID), ErrInvalidTransition)
	assert.ErrorIs(t, r.MarkError(f.ID, "late"), ErrInvalidTransition)
	assert.ErrorIs(t, r.MarkAnalyzed(f.ID, "other"), ErrInvalidTransition)

	got, _ := r.Get(f.ID)
	assert.Equal(t, model.FileStatusAnalyzed, got.Status)
	assert.Equal(t, "summary", got.Summary)
	assert.Empty(t, got.Error)
}

func TestPendingCannotSkipToAnalyzed(t *testing.T) {
	r := New()
	f := r.Register("doc.txt", "text/plain", nil)
	assert.ErrorIs(t, r.MarkAnalyzed(f.ID, "x"), ErrInvalidTransition)
}

func TestUnknownID(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.MarkAnalyzing("missing"), ErrNotFound)
	assert.ErrorIs(t, r.SetData("missing", nil), ErrNotFound)
	assert.False(t, r.IsAnalyzed("missing"))
	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	r := New()
	f := r.Register("doc.txt", "text/plain", nil)
	r.Reset()

	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Exists(f.ID))
}
