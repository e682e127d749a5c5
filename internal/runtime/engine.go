package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/triagekit/triage/internal/logging"
	"github.com/triagekit/triage/pkg/chain"
	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/registry"
	"github.com/triagekit/triage/pkg/session"
)

// Engine is the core coordinator: it routes requests through the dispatch
// chain and runs undoable commands against durable per-session journals.
type Engine struct {
	chain    *chain.Chain
	registry *registry.Registry
	sessions *session.Manager
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks for command events.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates the engine with its dependencies.
func NewEngine(c *chain.Chain, reg *registry.Registry, sessions *session.Manager, opts ...EngineOption) *Engine {
	e := &Engine{
		chain:    c,
		registry: reg,
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dispatch routes the request through the chain.
func (e *Engine) Dispatch(ctx context.Context, req domain.Request) (domain.Outcome, error) {
	return e.chain.Dispatch(ctx, req)
}

// Chain exposes the underlying dispatch chain for introspection.
func (e *Engine) Chain() *chain.Chain {
	return e.chain
}

// Registry exposes the command registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Execute builds the named command from the registry, runs it, and records
// it on the session journal. The journal write and the execution happen
// under the session lock, so concurrent executes against one session
// serialize. A failed execution is not recorded: its forward operation
// performed nothing, and inverting it later would corrupt the receiver.
func (e *Engine) Execute(ctx context.Context, sessionID, name string, args map[string]any) error {
	cmd, err := e.registry.Build(name, args)
	if err != nil {
		return err
	}

	return e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		store := e.sessions.Store()

		journal, err := store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			journal = domain.NewJournal(sessionID)
		} else if err != nil {
			return fmt.Errorf("load session %s: %w", sessionID, err)
		}

		execErr := cmd.Execute(ctx)
		e.fireCommand(ctx, domain.EventCommandExecute, sessionID, name, execErr != nil)
		if execErr != nil {
			e.logger.ErrorContext(ctx, "command failed",
				"session_id", sessionID,
				"command", name,
				"err", execErr,
			)
			return fmt.Errorf("execute %s: %w", name, execErr)
		}

		journal.Push(domain.NewJournalEntry(name, args))
		if err := store.Save(ctx, sessionID, journal); err != nil {
			return fmt.Errorf("save session %s: %w", sessionID, err)
		}

		e.logger.InfoContext(ctx, "command executed",
			"session_id", sessionID,
			"command", name,
			"history_len", journal.Len(),
		)
		return nil
	})
}

// Undo reverses the most recent command of the session. The command is
// rebuilt from its journal entry through the registry, so undo works even
// after a process restart. An empty (or absent) history returns
// domain.ErrNothingToUndo and leaves everything unchanged. If the inverse
// fails, the entry stays journaled so history and receiver state do not
// silently diverge.
func (e *Engine) Undo(ctx context.Context, sessionID string) (string, error) {
	var undone string
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		store := e.sessions.Store()

		journal, err := store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrNothingToUndo
		}
		if err != nil {
			return fmt.Errorf("load session %s: %w", sessionID, err)
		}

		entry, err := journal.Pop()
		if err != nil {
			return err
		}

		cmd, err := e.registry.Build(entry.Command, entry.Args)
		if err != nil {
			return fmt.Errorf("rebuild journaled command: %w", err)
		}

		undoErr := cmd.Undo(ctx)
		e.fireCommand(ctx, domain.EventCommandUndo, sessionID, entry.Command, undoErr != nil)
		if undoErr != nil {
			return fmt.Errorf("undo %s: %w", entry.Command, undoErr)
		}

		if err := store.Save(ctx, sessionID, journal); err != nil {
			return fmt.Errorf("save session %s: %w", sessionID, err)
		}

		undone = entry.Command
		e.logger.InfoContext(ctx, "command undone",
			"session_id", sessionID,
			"command", entry.Command,
			"history_len", journal.Len(),
		)
		return nil
	})
	return undone, err
}

// History returns a snapshot of the session journal.
func (e *Engine) History(ctx context.Context, sessionID string) (*domain.Journal, error) {
	return e.sessions.Load(ctx, sessionID)
}

// Reset clears the session history without touching the receivers.
// Recorded commands become un-undoable.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	return e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		store := e.sessions.Store()

		journal, err := store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil // Nothing to reset
		}
		if err != nil {
			return fmt.Errorf("load session %s: %w", sessionID, err)
		}

		journal.Reset()
		return store.Save(ctx, sessionID, journal)
	})
}

// Sessions lists the known session IDs.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// DeleteSession removes a session and its history.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}

func (e *Engine) fireCommand(ctx context.Context, eventType domain.EventType, sessionID, name string, isError bool) {
	var hook func(context.Context, *domain.CommandEvent)
	switch eventType {
	case domain.EventCommandExecute:
		hook = e.hooks.OnCommandExecute
	case domain.EventCommandUndo:
		hook = e.hooks.OnCommandUndo
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.CommandEvent{
		EventBase: domain.EventBase{Timestamp: time.Now().UTC(), Type: eventType},
		SessionID: sessionID,
		Command:   name,
		IsError:   isError,
	})
}
