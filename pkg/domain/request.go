package domain

import (
	"time"

	"github.com/google/uuid"
)

// Request is a unit of work submitted to a dispatch chain.
// It is immutable once submitted: the constructor copies the payload,
// and the struct is passed by value through the chain.
type Request struct {
	// ID uniquely identifies the request (correlation across logs and events).
	ID string

	// Kind labels the category of the request (e.g. "password_reset").
	Kind string

	// Level is the numeric severity. Handlers accept requests up to their
	// configured maximum level; higher means harder to satisfy.
	Level int

	// Payload carries opaque request data. Never mutated by the engine.
	Payload map[string]any

	// SubmittedAt records when the request was created.
	SubmittedAt time.Time
}

// NewRequest creates an immutable request with a generated ID.
// The payload map is defensively copied so later mutations by the caller
// do not leak into the submitted request.
func NewRequest(kind string, level int, payload map[string]any) Request {
	copied := make(map[string]any, len(payload))
	for k, v := range payload {
		copied[k] = v
	}
	return Request{
		ID:          uuid.NewString(),
		Kind:        kind,
		Level:       level,
		Payload:     copied,
		SubmittedAt: time.Now().UTC(),
	}
}
