// Package store provides the persistence backends for onboarding state:
// in-memory for tests and local development, postgres as the system of
// record, and redis as a read-through cache layer.
package store

import (
	"context"
	"sync"

	"relomate/internal/onboarding"
	id "relomate/pkg/domain"
	"relomate/pkg/platform/sentinel"
)

// InMemoryStore keeps onboarding state in a map. Records are deep-copied
// on the way in and out so callers never alias store internals.
type InMemoryStore struct {
	mu     sync.RWMutex
	states map[id.UserID]*onboarding.State
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{states: make(map[id.UserID]*onboarding.State)}
}

func (s *InMemoryStore) Load(_ context.Context, userID id.UserID) (*onboarding.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return state.Clone(), nil
}

func (s *InMemoryStore) Save(_ context.Context, state *onboarding.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.UserID] = state.Clone()
	return nil
}

// Clear removes all records. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[id.UserID]*onboarding.State)
}
