package pricing

import (
	"context"
	"sync"

	id "relomate/pkg/domain"
	"relomate/pkg/platform/sentinel"
)

type overrideKey struct {
	userID id.UserID
	track  id.RelocationType
}

// InMemoryStore keeps overrides in a map. Tests and local development.
type InMemoryStore struct {
	mu        sync.RWMutex
	overrides map[overrideKey]Override
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{overrides: make(map[overrideKey]Override)}
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID, track id.RelocationType) (*Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	override, ok := s.overrides[overrideKey{userID, track}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &override, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Override
	for key, override := range s.overrides {
		if key.userID == userID {
			out = append(out, override)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, override Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[overrideKey{override.UserID, override.Track}] = override
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID id.UserID, track id.RelocationType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := overrideKey{userID, track}
	if _, ok := s.overrides[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.overrides, key)
	return nil
}
