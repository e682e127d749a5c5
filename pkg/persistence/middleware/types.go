package middleware

import "github.com/triagekit/triage/pkg/ports"

// Middleware wraps a HistoryStore with additional behavior (encryption, masking).
type Middleware func(next ports.HistoryStore) ports.HistoryStore
