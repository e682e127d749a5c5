package chain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
)

// Middleware wraps a handler with cross-cutting behavior (logging, metrics,
// panic containment). Decoration is explicit: the caller composes middlewares
// at chain construction time.
type Middleware func(ports.Handler) ports.Handler

// Wrap applies middlewares so the first listed is the outermost.
func Wrap(h ports.Handler, middlewares ...Middleware) ports.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type wrapped struct {
	inner ports.Handler
	fn    HandleFunc
}

func (w *wrapped) Name() string {
	return w.inner.Name()
}

func (w *wrapped) Handle(ctx context.Context, req domain.Request) (domain.Result, error) {
	return w.fn(ctx, req)
}

// Logging logs every consult of the wrapped handler, including declines.
// The chain itself only logs final outcomes; this middleware is for tracing
// the walk handler by handler.
func Logging(logger *slog.Logger) Middleware {
	return func(next ports.Handler) ports.Handler {
		return &wrapped{
			inner: next,
			fn: func(ctx context.Context, req domain.Request) (domain.Result, error) {
				res, err := next.Handle(ctx, req)
				logger.DebugContext(ctx, "handler consulted",
					"handler", next.Name(),
					"request_id", req.ID,
					"level", req.Level,
					"handled", res.Handled,
					"err", err,
				)
				return res, err
			},
		}
	}
}

// Recover converts a handler panic into a handler error, so one faulty
// handler cannot take down a dispatch loop serving other callers.
func Recover() Middleware {
	return func(next ports.Handler) ports.Handler {
		return &wrapped{
			inner: next,
			fn: func(ctx context.Context, req domain.Request) (res domain.Result, err error) {
				defer func() {
					if r := recover(); r != nil {
						res = domain.Result{}
						err = fmt.Errorf("handler %s panicked: %v", next.Name(), r)
					}
				}()
				return next.Handle(ctx, req)
			},
		}
	}
}
