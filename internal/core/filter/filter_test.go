package filter

import (
	"testing"

	"github.com/agenthands/casefile/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestDefaultsAllVisible(t *testing.T) {
	s := New()
	for _, c := range model.Categories {
		assert.True(t, s.Visible(c), c)
	}
}

func TestToggleFlipsOnlyOneCategory(t *testing.T) {
	s := New()

	assert.False(t, s.Toggle(model.CategoryDate))

	for _, c := range model.Categories {
		if c == model.CategoryDate {
			assert.False(t, s.Visible(c))
			continue
		}
		assert.True(t, s.Visible(c), c)
	}

	assert.True(t, s.Toggle(model.CategoryDate))
	assert.Equal(t, AllVisible(), s.Snapshot())
}

func TestSnapshotIsDetached(t *testing.T) {
	s := New()
	snap := s.Snapshot()
	s.Toggle(model.CategoryPerson)

	assert.True(t, snap.Visible(model.CategoryPerson))
	assert.False(t, s.Snapshot().Visible(model.CategoryPerson))
}

func TestReset(t *testing.T) {
	s := New()
	s.Set(model.CategoryEvent, false)
	s.Reset()
	assert.True(t, s.Visible(model.CategoryEvent))
}
