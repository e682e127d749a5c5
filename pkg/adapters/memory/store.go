package memory

import (
	"context"
	"sync"

	"github.com/triagekit/triage/pkg/domain"
)

// Store implements ports.HistoryStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Journal
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Journal),
	}
}

// Save persists the journal in memory.
// The journal is cloned so later mutations by the caller do not leak in.
func (s *Store) Save(ctx context.Context, sessionID string, journal *domain.Journal) error {
	copied := journal.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the journal from memory.
// A clone is returned so the caller can't mutate store state through the pointer.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	journal, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return journal.Clone(), nil
}

// Delete removes the journal.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
