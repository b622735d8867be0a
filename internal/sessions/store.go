// Package sessions tracks which document each owner is currently asking about.
package sessions

import (
	"sync"

	"documate/internal/documents"
)

// Store maps an owner to their active document. It is safe for concurrent use;
// each replace happens in a single critical section.
type Store struct {
	mu     sync.RWMutex
	active map[string]documents.Reference
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		active: make(map[string]documents.Reference),
	}
}

// SetActive installs ref as the owner's active document and returns the one it replaced.
func (s *Store) SetActive(ownerID string, ref documents.Reference) (documents.Reference, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, replaced := s.active[ownerID]
	s.active[ownerID] = ref
	return prev, replaced
}

// Active returns the owner's active document, if any.
func (s *Store) Active(ownerID string) (documents.Reference, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.active[ownerID]
	return ref, ok
}

// Clear removes and returns the owner's active document.
func (s *Store) Clear(ownerID string) (documents.Reference, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.active[ownerID]
	if ok {
		delete(s.active, ownerID)
	}
	return prev, ok
}

// Len returns the number of owners with an active document.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}

// Drain empties the store and returns every reference that was live.
func (s *Store) Drain() []documents.Reference {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]documents.Reference, 0, len(s.active))
	for _, ref := range s.active {
		out = append(out, ref)
	}
	s.active = make(map[string]documents.Reference)
	return out
}
