// Package filter holds the per-category visibility toggles of the board.
package filter

import (
	"github.com/agenthands/casefile/internal/core/model"
)

// Snapshot is an immutable copy of the visibility flags.
type Snapshot map[model.Category]bool

// Visible reports whether c is shown. Categories missing from the snapshot
// are hidden.
func (s Snapshot) Visible(c model.Category) bool {
	return s[c]
}

// State is the mutable filter state; every category starts visible.
type State struct {
	visible map[model.Category]bool
}

func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Toggle flips exactly one category and returns its new value.
func (s *State) Toggle(c model.Category) bool {
	s.visible[c] = !s.visible[c]
	return s.visible[c]
}

func (s *State) Set(c model.Category, visible bool) {
	s.visible[c] = visible
}

func (s *State) Visible(c model.Category) bool {
	return s.visible[c]
}

func (s *State) Snapshot() Snapshot {
	out := make(Snapshot, len(s.visible))
	for c, v := range s.visible {
		out[c] = v
	}
	return out
}

// Reset makes every category visible again.
func (s *State) Reset() {
	s.visible = make(map[model.Category]bool, len(model.Categories))
	for _, c := range model.Categories {
		s.visible[c] = true
	}
}

// AllVisible is the default snapshot.
func AllVisible() Snapshot {
	return New().Snapshot()
}
