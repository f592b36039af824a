package mirror

import (
	"context"
	"sync"

	"catalog-sync/core/lifecycle"
)

// MemoryStore is an in-memory Store used by tests and dry runs. It is safe for
// concurrent use. Transaction gives fn the store itself; rollback is not
// simulated.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint
	recs   map[uint]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, recs: make(map[uint]*Record)}
}

// Get returns the record for the given identity, or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, entityType, externalID, scope string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.recs {
		if rec.EntityType == entityType && rec.ExternalID == externalID && rec.Scope == scope {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// ListByTypeAndScope returns every record of a kind within a scope.
func (s *MemoryStore) ListByTypeAndScope(ctx context.Context, entityType, scope string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, rec := range s.recs {
		if rec.EntityType == entityType && rec.Scope == scope {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// ListByPropagation returns records matching any of the propagation statuses.
func (s *MemoryStore) ListByPropagation(ctx context.Context, entityType, scope string, statuses ...lifecycle.PropagationStatus) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, rec := range s.recs {
		if rec.EntityType != entityType || rec.Scope != scope {
			continue
		}
		for _, p := range statuses {
			if rec.Propagation == p {
				out = append(out, *rec)
				break
			}
		}
	}
	return out, nil
}

// ListChildren returns records of childType under the given parent.
func (s *MemoryStore) ListChildren(ctx context.Context, childType, parentID, scope string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, rec := range s.recs {
		if rec.EntityType == childType && rec.ParentID == parentID && rec.Scope == scope {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// Upsert creates or updates the record based on its primary key.
func (s *MemoryStore) Upsert(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == 0 {
		rec.ID = s.nextID
		s.nextID++
	}
	cp := *rec
	s.recs[rec.ID] = &cp
	return nil
}

// SetPropagation updates the propagation status of the given records.
func (s *MemoryStore) SetPropagation(ctx context.Context, ids []uint, p lifecycle.PropagationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if rec, ok := s.recs[id]; ok {
			rec.Propagation = p
		}
	}
	return nil
}

// Transaction runs fn against the store itself.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}
