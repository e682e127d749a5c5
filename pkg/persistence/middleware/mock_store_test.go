package middleware_test

import (
	"context"

	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
type MockStore struct {
	data map[string]*domain.Journal
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Journal),
	}
}

func (s *MockStore) Save(ctx context.Context, sessionID string, journal *domain.Journal) error {
	s.data[sessionID] = journal
	return nil
}

func (s *MockStore) Load(ctx context.Context, sessionID string) (*domain.Journal, error) {
	journal, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return journal, nil
}

func (s *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.data, sessionID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.HistoryStore = (*MockStore)(nil)
