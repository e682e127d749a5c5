package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/triagekit/triage/pkg/adapters/memory"
	"github.com/triagekit/triage/pkg/chain"
	"github.com/triagekit/triage/pkg/command"
	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
	"github.com/triagekit/triage/pkg/registry"
	"github.com/triagekit/triage/pkg/session"
)

// counter is a shared receiver whose commands adjust it by a journaled delta.
type counter struct {
	mu    sync.Mutex
	value int
}

func (c *counter) add(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += n
}

func (c *counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func newTestEngine(t *testing.T, recv *counter) *Engine {
	t.Helper()

	c := chain.New()
	if err := c.Append(chain.Level("junior", 1, "handled by junior")); err != nil {
		t.Fatalf("append handler: %v", err)
	}
	if err := c.Append(chain.Level("senior", 3, "handled by senior")); err != nil {
		t.Fatalf("append handler: %v", err)
	}

	reg := registry.NewRegistry()
	reg.Register("counter.add", func(args map[string]any) (ports.Command, error) {
		var params struct {
			Delta int `json:"delta"`
		}
		if err := registry.DecodeArgs(args, &params); err != nil {
			return nil, err
		}
		return command.Func("counter.add",
			func(context.Context) error {
				recv.add(params.Delta)
				return nil
			},
			func(context.Context) error {
				recv.add(-params.Delta)
				return nil
			},
		), nil
	})
	reg.Register("always.fails", func(args map[string]any) (ports.Command, error) {
		return command.Func("always.fails",
			func(context.Context) error { return errors.New("boom") },
			func(context.Context) error { return nil },
		), nil
	})

	sessions := session.NewManager(memory.NewStore())
	return NewEngine(c, reg, sessions)
}

func TestEngine_Dispatch(t *testing.T) {
	engine := newTestEngine(t, &counter{})
	ctx := context.Background()

	t.Run("Routes To First Capable Handler", func(t *testing.T) {
		out, err := engine.Dispatch(ctx, domain.NewRequest("incident", 2, nil))
		if err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		if !out.Handled || out.Handler != "senior" {
			t.Fatalf("expected senior to accept, got %+v", out)
		}
	})

	t.Run("Unhandled Is Not An Error", func(t *testing.T) {
		out, err := engine.Dispatch(ctx, domain.NewRequest("incident", 9, nil))
		if err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		if out.Handled {
			t.Fatalf("expected unhandled outcome, got %+v", out)
		}
	})
}

func TestEngine_ExecuteUndoRoundTrip(t *testing.T) {
	recv := &counter{}
	engine := newTestEngine(t, recv)
	ctx := context.Background()
	const sessionID = "sess-roundtrip"

	for i := 0; i < 3; i++ {
		if err := engine.Execute(ctx, sessionID, "counter.add", map[string]any{"delta": 10}); err != nil {
			t.Fatalf("execute %d: %v", i, err)
		}
	}
	if got := recv.get(); got != 30 {
		t.Fatalf("expected counter 30, got %d", got)
	}

	journal, err := engine.History(ctx, sessionID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if journal.Len() != 3 {
		t.Fatalf("expected 3 journal entries, got %d", journal.Len())
	}

	for i := 0; i < 3; i++ {
		name, err := engine.Undo(ctx, sessionID)
		if err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
		if name != "counter.add" {
			t.Fatalf("expected counter.add undone, got %q", name)
		}
	}
	if got := recv.get(); got != 0 {
		t.Fatalf("expected counter back to 0, got %d", got)
	}

	if _, err := engine.Undo(ctx, sessionID); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestEngine_UndoUnknownSession(t *testing.T) {
	engine := newTestEngine(t, &counter{})

	_, err := engine.Undo(context.Background(), "never-seen")
	if !errors.Is(err, domain.ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestEngine_FailedExecuteNotJournaled(t *testing.T) {
	recv := &counter{}
	engine := newTestEngine(t, recv)
	ctx := context.Background()
	const sessionID = "sess-failures"

	if err := engine.Execute(ctx, sessionID, "counter.add", map[string]any{"delta": 5}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if err := engine.Execute(ctx, sessionID, "always.fails", nil); err == nil {
		t.Fatal("expected execute error")
	}

	journal, err := engine.History(ctx, sessionID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if journal.Len() != 1 {
		t.Fatalf("expected failed command to stay off the journal, got %d entries", journal.Len())
	}
	if journal.Entries[0].Command != "counter.add" {
		t.Fatalf("unexpected journaled command %q", journal.Entries[0].Command)
	}
}

func TestEngine_ExecuteUnknownCommand(t *testing.T) {
	engine := newTestEngine(t, &counter{})

	err := engine.Execute(context.Background(), "sess", "no.such.command", nil)
	if !errors.Is(err, domain.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestEngine_Reset(t *testing.T) {
	recv := &counter{}
	engine := newTestEngine(t, recv)
	ctx := context.Background()
	const sessionID = "sess-reset"

	if err := engine.Execute(ctx, sessionID, "counter.add", map[string]any{"delta": 1}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if err := engine.Reset(ctx, sessionID); err != nil {
		t.Fatalf("reset: %v", err)
	}

	// Reset clears the history but leaves the receiver alone.
	if got := recv.get(); got != 1 {
		t.Fatalf("expected receiver untouched by reset, got %d", got)
	}
	if _, err := engine.Undo(ctx, sessionID); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Fatalf("expected empty history after reset, got %v", err)
	}

	// Resetting an unknown session is a no-op.
	if err := engine.Reset(ctx, "never-seen"); err != nil {
		t.Fatalf("reset unknown session: %v", err)
	}
}

func TestEngine_SessionLifecycle(t *testing.T) {
	engine := newTestEngine(t, &counter{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("sess-%d", i)
		if err := engine.Execute(ctx, id, "counter.add", map[string]any{"delta": 1}); err != nil {
			t.Fatalf("execute: %v", err)
		}
	}

	ids, err := engine.Sessions(ctx)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 sessions, got %v", ids)
	}

	if err := engine.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ids, err = engine.Sessions(ctx)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 sessions after delete, got %v", ids)
	}
	if _, err := engine.History(ctx, "sess-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestEngine_ConcurrentExecutes(t *testing.T) {
	recv := &counter{}
	engine := newTestEngine(t, recv)
	ctx := context.Background()
	const sessionID = "sess-concurrent"
	const n = 25

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := engine.Execute(ctx, sessionID, "counter.add", map[string]any{"delta": 1}); err != nil {
				t.Errorf("execute: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := recv.get(); got != n {
		t.Fatalf("expected counter %d, got %d", n, got)
	}
	journal, err := engine.History(ctx, sessionID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if journal.Len() != n {
		t.Fatalf("expected %d journal entries, got %d", n, journal.Len())
	}
}

func TestEngine_CommandHooks(t *testing.T) {
	recv := &counter{}
	var mu sync.Mutex
	var events []domain.EventType

	c := chain.New()
	reg := registry.NewRegistry()
	reg.Register("counter.add", func(args map[string]any) (ports.Command, error) {
		return command.Func("counter.add",
			func(context.Context) error { recv.add(1); return nil },
			func(context.Context) error { recv.add(-1); return nil },
		), nil
	})
	sessions := session.NewManager(memory.NewStore())

	engine := NewEngine(c, reg, sessions, WithLifecycleHooks(domain.LifecycleHooks{
		OnCommandExecute: func(_ context.Context, ev *domain.CommandEvent) {
			mu.Lock()
			events = append(events, ev.Type)
			mu.Unlock()
		},
		OnCommandUndo: func(_ context.Context, ev *domain.CommandEvent) {
			mu.Lock()
			events = append(events, ev.Type)
			mu.Unlock()
		},
	}))

	ctx := context.Background()
	if err := engine.Execute(ctx, "sess", "counter.add", nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := engine.Undo(ctx, "sess"); err != nil {
		t.Fatalf("undo: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []domain.EventType{domain.EventCommandExecute, domain.EventCommandUndo}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), events)
	}
	for i, typ := range want {
		if events[i] != typ {
			t.Fatalf("event %d: expected %s, got %s", i, typ, events[i])
		}
	}
}
