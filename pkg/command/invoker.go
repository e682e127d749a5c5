package command

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/triagekit/triage/internal/logging"
	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
)

// Invoker executes commands and records them on an undo stack.
// A command is recorded only when its Execute succeeds: a failed forward
// operation performed nothing, so inverting it later would corrupt the
// receiver. Safe for concurrent use.
type Invoker struct {
	mu      sync.Mutex
	stack   []ports.Command
	session string
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithLogger sets a structured logger for command events.
func WithLogger(logger *slog.Logger) Option {
	return func(inv *Invoker) {
		inv.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks fired on execute/undo.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(inv *Invoker) {
		inv.hooks = hooks
	}
}

// WithSession labels events with the owning session ID.
func WithSession(sessionID string) Option {
	return func(inv *Invoker) {
		inv.session = sessionID
	}
}

// NewInvoker creates an empty invoker.
func NewInvoker(opts ...Option) *Invoker {
	inv := &Invoker{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Execute runs the command and pushes it onto the history on success.
func (inv *Invoker) Execute(ctx context.Context, cmd ports.Command) error {
	err := cmd.Execute(ctx)
	inv.fireCommand(ctx, domain.EventCommandExecute, cmd.Name(), err != nil)
	if err != nil {
		inv.logger.ErrorContext(ctx, "command failed",
			"command", cmd.Name(),
			"session", inv.session,
			"err", err,
		)
		return fmt.Errorf("execute %s: %w", cmd.Name(), err)
	}

	inv.mu.Lock()
	inv.stack = append(inv.stack, cmd)
	inv.mu.Unlock()

	inv.logger.InfoContext(ctx, "command executed",
		"command", cmd.Name(),
		"session", inv.session,
	)
	return nil
}

// Undo pops the most recent command and runs its inverse.
// An empty history returns domain.ErrNothingToUndo and changes nothing.
// If the inverse itself fails, the command stays on the stack so history
// and receiver state do not silently diverge.
func (inv *Invoker) Undo(ctx context.Context) (string, error) {
	inv.mu.Lock()
	if len(inv.stack) == 0 {
		inv.mu.Unlock()
		return "", domain.ErrNothingToUndo
	}
	cmd := inv.stack[len(inv.stack)-1]
	inv.stack = inv.stack[:len(inv.stack)-1]
	inv.mu.Unlock()

	err := cmd.Undo(ctx)
	inv.fireCommand(ctx, domain.EventCommandUndo, cmd.Name(), err != nil)
	if err != nil {
		inv.mu.Lock()
		inv.stack = append(inv.stack, cmd)
		inv.mu.Unlock()
		return "", fmt.Errorf("undo %s: %w", cmd.Name(), err)
	}

	inv.logger.InfoContext(ctx, "command undone",
		"command", cmd.Name(),
		"session", inv.session,
	)
	return cmd.Name(), nil
}

// Len returns the number of undoable commands.
func (inv *Invoker) Len() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.stack)
}

// History returns the recorded command names, oldest first.
func (inv *Invoker) History() []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	names := make([]string, len(inv.stack))
	for i, cmd := range inv.stack {
		names[i] = cmd.Name()
	}
	return names
}

// Reset drops the whole history. Recorded commands become un-undoable.
func (inv *Invoker) Reset() {
	inv.mu.Lock()
	inv.stack = nil
	inv.mu.Unlock()
}

func (inv *Invoker) fireCommand(ctx context.Context, eventType domain.EventType, name string, isError bool) {
	var hook func(context.Context, *domain.CommandEvent)
	switch eventType {
	case domain.EventCommandExecute:
		hook = inv.hooks.OnCommandExecute
	case domain.EventCommandUndo:
		hook = inv.hooks.OnCommandUndo
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.CommandEvent{
		EventBase: domain.EventBase{Timestamp: time.Now().UTC(), Type: eventType},
		SessionID: inv.session,
		Command:   name,
		IsError:   isError,
	})
}
