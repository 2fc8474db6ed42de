package store

import (
	"context"
	"sync"

	"github.com/lessonbird/timetable/core/model"
)

type scopeKey struct {
	schoolID string
	termID   string
}

// MemoryStore is a mutex-guarded in-memory Store. It serves as the reference
// implementation of the Apply contract and as a test double.
type MemoryStore struct {
	mu         sync.Mutex
	placements map[string]model.Placement
	versions   map[scopeKey]uint64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		placements: make(map[string]model.Placement),
		versions:   make(map[scopeKey]uint64),
	}
}

// Snapshot implements Store.
func (s *MemoryStore) Snapshot(ctx context.Context, schoolID, termID string) ([]model.Placement, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Placement
	for _, p := range s.placements {
		if p.SchoolID == schoolID && p.TermID == termID {
			out = append(out, p)
		}
	}
	return out, s.versions[scopeKey{schoolID, termID}], nil
}

// Apply implements Store. The whole operation happens under one lock so a
// concurrent Snapshot never observes the deletes without the insert.
func (s *MemoryStore) Apply(ctx context.Context, schoolID, termID string, version uint64, deleteIDs []string, insert model.Placement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scopeKey{schoolID, termID}
	if s.versions[key] != version {
		return ErrStaleSnapshot
	}
	for _, id := range deleteIDs {
		if _, ok := s.placements[id]; !ok {
			return ErrNotFound
		}
	}
	for _, id := range deleteIDs {
		delete(s.placements, id)
	}
	s.placements[insert.ID] = insert
	s.versions[key]++
	return nil
}

// Remove implements Store.
func (s *MemoryStore) Remove(ctx context.Context, id string) (model.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.placements[id]
	if !ok {
		return model.Placement{}, ErrNotFound
	}
	delete(s.placements, id)
	s.versions[scopeKey{p.SchoolID, p.TermID}]++
	return p, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.placements[id]
	if !ok {
		return model.Placement{}, ErrNotFound
	}
	return p, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
