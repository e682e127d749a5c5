package triage

import (
	"context"
	"io"
	"log/slog"

	"github.com/triagekit/triage/internal/runtime"
	"github.com/triagekit/triage/pkg/adapters/memory"
	"github.com/triagekit/triage/pkg/chain"
	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
	"github.com/triagekit/triage/pkg/registry"
	"github.com/triagekit/triage/pkg/session"
)

// Engine is the high-level entry point for the triage library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime  *runtime.Engine
	chain    *chain.Chain
	registry *registry.Registry
	store    ports.HistoryStore
	locker   ports.DistributedLocker
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	pendingHandlers []ports.Handler
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithChain injects a pre-built dispatch chain, e.g. one loaded from a
// YAML definition.
func WithChain(c *chain.Chain) Option {
	return func(e *Engine) {
		e.chain = c
	}
}

// WithHandlers appends handlers to the dispatch chain in the given order.
// Ignored when WithChain is also provided.
func WithHandlers(handlers ...ports.Handler) Option {
	return func(e *Engine) {
		e.pendingHandlers = append(e.pendingHandlers, handlers...)
	}
}

// WithStore injects a custom history store, bypassing the default
// in-memory one.
func WithStore(store ports.HistoryStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed locking for multi-replica deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithRegistry injects a pre-populated command registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new triage Engine.
// By default it uses an in-memory history store and an empty chain and
// registry; use the options to wire real handlers, commands and storage.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	chainOpts := []chain.Option{
		chain.WithLogger(eng.logger),
		chain.WithLifecycleHooks(eng.hooks),
	}
	if eng.chain == nil {
		eng.chain = chain.New(chainOpts...)
		for _, h := range eng.pendingHandlers {
			if err := eng.chain.Append(h); err != nil {
				return nil, err
			}
		}
	}
	eng.pendingHandlers = nil

	if eng.registry == nil {
		eng.registry = registry.NewRegistry()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	sessionOpts := []session.Option{
		session.WithLogger(eng.logger),
	}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	sessions := session.NewManager(eng.store, sessionOpts...)

	eng.runtime = runtime.NewEngine(
		eng.chain,
		eng.registry,
		sessions,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	return eng, nil
}

// Register adds a command factory under the given name.
func (e *Engine) Register(name string, factory registry.Factory) {
	e.registry.Register(name, factory)
}

// Dispatch routes a request through the chain and reports the outcome.
// An unhandled request is a valid outcome, not an error.
func (e *Engine) Dispatch(ctx context.Context, req domain.Request) (domain.Outcome, error) {
	return e.runtime.Dispatch(ctx, req)
}

// Execute builds the named command, runs it and records it on the
// session's undo history.
func (e *Engine) Execute(ctx context.Context, sessionID, command string, args map[string]any) error {
	return e.runtime.Execute(ctx, sessionID, command, args)
}

// Undo reverses the session's most recent command and returns its name.
// domain.ErrNothingToUndo signals an empty history.
func (e *Engine) Undo(ctx context.Context, sessionID string) (string, error) {
	return e.runtime.Undo(ctx, sessionID)
}

// History returns a snapshot of the session's undo journal.
func (e *Engine) History(ctx context.Context, sessionID string) (*domain.Journal, error) {
	return e.runtime.History(ctx, sessionID)
}

// Reset clears the session's undo history.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	return e.runtime.Reset(ctx, sessionID)
}

// Sessions lists the known session IDs.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.runtime.Sessions(ctx)
}

// DeleteSession removes a session and its history.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	return e.runtime.DeleteSession(ctx, sessionID)
}

// Chain exposes the dispatch chain for introspection.
func (e *Engine) Chain() *chain.Chain {
	return e.chain
}

// Registry exposes the command registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Runtime exposes the internal engine for embedding in servers.
func (e *Engine) Runtime() *runtime.Engine {
	return e.runtime
}
