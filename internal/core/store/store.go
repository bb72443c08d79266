// Package store holds the deduplicated, cross-document set of entities.
//
// The store is not safe for concurrent use. It is owned by a single writer
// (the workspace pipeline) which serialises access.
package store

import (
	"fmt"

	"github.com/agenthands/casefile/internal/core/model"
)

// Store keeps entities in first-seen order, indexed by their dedup key.
type Store struct {
	entities []*model.Entity
	index    map[model.EntityKey]int
	ids      map[string]bool
}

func New() *Store {
	return &Store{
		index: make(map[model.EntityKey]int),
		ids:   make(map[string]bool),
	}
}

// Lookup returns the live entity for key, or nil.
func (s *Store) Lookup(key model.EntityKey) *model.Entity {
	i, ok := s.index[key]
	if !ok {
		return nil
	}
	return s.entities[i]
}

// Insert adds a new entity. It returns false when the key is already taken.
// The entity gets the key's id, or the first free "-2", "-3", ... variant of
// it when another key already rendered to the same id.
func (s *Store) Insert(e model.Entity) bool {
	key := e.Key()
	if _, ok := s.index[key]; ok {
		return false
	}
	e = e.Clone()
	e.ID = s.freeID(key.ID())
	s.ids[e.ID] = true
	s.index[key] = len(s.entities)
	s.entities = append(s.entities, &e)
	return true
}

func (s *Store) freeID(base string) string {
	id := base
	for n := 2; s.ids[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

// Get returns a copy of the entity with the given id.
func (s *Store) Get(id string) (model.Entity, bool) {
	for _, e := range s.entities {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return model.Entity{}, false
}

// Snapshot copies every entity in insertion order.
func (s *Store) Snapshot() []model.Entity {
	out := make([]model.Entity, len(s.entities))
	for i, e := range s.entities {
		out[i] = e.Clone()
	}
	return out
}

// ReferencingDoc returns the entities that list docID as a source.
func (s *Store) ReferencingDoc(docID string) []model.Entity {
	var out []model.Entity
	for _, e := range s.entities {
		if e.HasSource(docID) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func (s *Store) Len() int {
	return len(s.entities)
}

// Reset drops every entity.
func (s *Store) Reset() {
	s.entities = nil
	s.index = make(map[model.EntityKey]int)
	s.ids = make(map[string]bool)
}
