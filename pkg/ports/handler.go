package ports

import (
	"context"

	"github.com/triagekit/triage/pkg/domain"
)

// Handler is a unit in a dispatch chain.
// Handle either satisfies the request (Result.Handled true, propagation stops)
// or declines it (Result.Handled false) so the chain tries the next handler.
// A returned error aborts the dispatch; declining is not an error.
type Handler interface {
	// Name identifies the handler in outcomes, logs and metrics.
	Name() string

	// Handle inspects the request and reports whether this handler satisfied it.
	Handle(ctx context.Context, req domain.Request) (domain.Result, error)
}
