package chain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/triagekit/triage/internal/logging"
	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
)

// Chain is an ordered sequence of handlers with first-accept-wins dispatch.
// Build it fully (New + Append) before dispatching; Dispatch itself is
// read-only and safe for concurrent use.
type Chain struct {
	handlers []ports.Handler
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithLogger sets a structured logger for dispatch events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks fired on accept/unhandled.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Chain) {
		c.hooks = hooks
	}
}

// New creates an empty chain.
func New(opts ...Option) *Chain {
	c := &Chain{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Append adds handlers to the end of the chain, preserving order.
// Nil handlers and duplicate names are rejected so the chain stays
// a finite, unambiguous sequence.
func (c *Chain) Append(handlers ...ports.Handler) error {
	for _, h := range handlers {
		if h == nil {
			return fmt.Errorf("nil handler")
		}
		for _, existing := range c.handlers {
			if existing.Name() == h.Name() {
				return fmt.Errorf("duplicate handler: %s", h.Name())
			}
		}
		c.handlers = append(c.handlers, h)
	}
	return nil
}

// Len returns the number of handlers in the chain.
func (c *Chain) Len() int {
	return len(c.handlers)
}

// Names returns the handler names in chain order, for introspection.
func (c *Chain) Names() []string {
	names := make([]string, len(c.handlers))
	for i, h := range c.handlers {
		names[i] = h.Name()
	}
	return names
}

// Dispatch offers the request to each handler in order.
// The first handler that accepts stops propagation; its name and reply are
// reported in the Outcome. If every handler declines, the Outcome is
// unhandled and err is nil. A handler error aborts the dispatch.
func (c *Chain) Dispatch(ctx context.Context, req domain.Request) (domain.Outcome, error) {
	start := time.Now()

	for _, h := range c.handlers {
		res, err := h.Handle(ctx, req)
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("handler %s: %w", h.Name(), err)
		}
		if !res.Handled {
			continue
		}

		c.logger.InfoContext(ctx, "request handled",
			"request_id", req.ID,
			"kind", req.Kind,
			"level", req.Level,
			"handler", h.Name(),
		)
		c.fireAccepted(ctx, req, h.Name(), time.Since(start))
		return domain.Accepted(req.ID, h.Name(), res.Reply), nil
	}

	c.logger.WarnContext(ctx, "request unhandled",
		"request_id", req.ID,
		"kind", req.Kind,
		"level", req.Level,
	)
	c.fireUnhandled(ctx, req, time.Since(start))
	return domain.Unhandled(req.ID), nil
}

func (c *Chain) fireAccepted(ctx context.Context, req domain.Request, handler string, elapsed time.Duration) {
	if c.hooks.OnRequestAccepted == nil {
		return
	}
	c.hooks.OnRequestAccepted(ctx, &domain.DispatchEvent{
		EventBase: domain.EventBase{Timestamp: time.Now().UTC(), Type: domain.EventRequestAccepted},
		RequestID: req.ID,
		Kind:      req.Kind,
		Level:     req.Level,
		Handler:   handler,
		Elapsed:   elapsed,
	})
}

func (c *Chain) fireUnhandled(ctx context.Context, req domain.Request, elapsed time.Duration) {
	if c.hooks.OnRequestUnhandled == nil {
		return
	}
	c.hooks.OnRequestUnhandled(ctx, &domain.DispatchEvent{
		EventBase: domain.EventBase{Timestamp: time.Now().UTC(), Type: domain.EventRequestUnhandled},
		RequestID: req.ID,
		Kind:      req.Kind,
		Level:     req.Level,
		Elapsed:   elapsed,
	})
}
