// Package store holds the process-wide node collections behind the GraphQL
// schema. A single Store is shared by every request; primary keys are
// allocated from per-kind counters that survive for the life of the process.
package store

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"graphlink/internal/model"
)

// Store is an in-memory node repository guarded by a single RWMutex.
// Lookups return copies, so callers can never mutate stored state directly.
type Store struct {
	mu       sync.RWMutex
	parents  map[int]model.Parent
	children map[int]model.Child

	parentSeq atomic.Int64
	childSeq  atomic.Int64
}

// New returns an empty store. Primary keys start at 1 for both kinds.
func New() *Store {
	return &Store{
		parents:  make(map[int]model.Parent),
		children: make(map[int]model.Child),
	}
}

// UpsertParent creates or replaces a parent record. When in.PK names an
// existing parent the record is replaced under that key, otherwise a fresh
// primary key is allocated and any supplied PK is discarded.
func (s *Store) UpsertParent(in model.Parent) model.Parent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parents[in.PK]; !ok {
		in.PK = int(s.parentSeq.Add(1))
	}
	s.parents[in.PK] = in
	return in
}

// UpsertChild creates or replaces a child record. Replacement is wholesale:
// the stored record becomes exactly in, including its parent and sibling
// links, under the same rules as UpsertParent.
func (s *Store) UpsertChild(in model.Child) model.Child {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.children[in.PK]; !ok {
		in.PK = int(s.childSeq.Add(1))
	}
	stored := in.Clone()
	s.children[stored.PK] = stored
	return stored.Clone()
}

// Parent returns the parent with the given primary key.
func (s *Store) Parent(pk int) (model.Parent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.parents[pk]
	return p, ok
}

// Child returns a copy of the child with the given primary key.
func (s *Store) Child(pk int) (model.Child, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.children[pk]
	if !ok {
		return model.Child{}, false
	}
	return c.Clone(), true
}

// Parents lists all parents ordered by primary key.
func (s *Store) Parents() []model.Parent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Parent, 0, len(s.parents))
	for _, p := range s.parents {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PK < out[j].PK })
	return out
}

// Children lists copies of all children ordered by primary key.
func (s *Store) Children() []model.Child {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Child, 0, len(s.children))
	for _, c := range s.children {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PK < out[j].PK })
	return out
}

// AssignParent points the child at the given parent. Assigning the same
// parent twice is a no-op, and assigning a different parent overwrites the
// previous link.
func (s *Store) AssignParent(parentPK, childPK int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parents[parentPK]; !ok {
		return fmt.Errorf("parent %d not found", parentPK)
	}
	child, ok := s.children[childPK]
	if !ok {
		return fmt.Errorf("child %d not found", childPK)
	}

	child.Parent = &parentPK
	s.children[childPK] = child
	return nil
}

// LinkSiblings records the sibling edge in both directions. Both children
// are validated before either side is written, so the link is never applied
// partially.
func (s *Store) LinkSiblings(aPK, bPK int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.children[aPK]
	if !ok {
		return fmt.Errorf("child %d not found", aPK)
	}
	if aPK == bPK {
		// Self-link still gets one entry per direction.
		a.Siblings = append(a.Siblings, bPK, aPK)
		s.children[aPK] = a
		return nil
	}
	b, ok := s.children[bPK]
	if !ok {
		return fmt.Errorf("child %d not found", bPK)
	}

	a.Siblings = append(a.Siblings, bPK)
	b.Siblings = append(b.Siblings, aPK)
	s.children[aPK] = a
	s.children[bPK] = b
	return nil
}

// Counts reports how many records each collection holds.
func (s *Store) Counts() (parents, children int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.parents), len(s.children)
}

// Reset drops every record and restarts both primary key counters.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.parents = make(map[int]model.Parent)
	s.children = make(map[int]model.Child)
	s.parentSeq.Store(0)
	s.childSeq.Store(0)
}
