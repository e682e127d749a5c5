package ports

import (
	"context"

	"github.com/triagekit/triage/pkg/domain"
)

// HistoryStore defines the interface for persisting session undo journals.
// This allows for durable undo, surviving process restarts and replicas.
type HistoryStore interface {
	// Save persists the journal for a given session ID.
	Save(ctx context.Context, sessionID string, journal *domain.Journal) error

	// Load retrieves the journal for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Journal, error)

	// Delete removes the journal for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all known sessions.
	List(ctx context.Context) ([]string, error)
}
