package chain_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/triagekit/triage/pkg/chain"
	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
)

// countingHandler decorates a handler and records how often it was consulted
// and how often it accepted.
type countingHandler struct {
	inner    ports.Handler
	mu       sync.Mutex
	consults int
	accepts  int
}

func (h *countingHandler) Name() string { return h.inner.Name() }

func (h *countingHandler) Handle(ctx context.Context, req domain.Request) (domain.Result, error) {
	res, err := h.inner.Handle(ctx, req)
	h.mu.Lock()
	h.consults++
	if res.Handled {
		h.accepts++
	}
	h.mu.Unlock()
	return res, err
}

func buildTierChain(t *testing.T) (*chain.Chain, []*countingHandler) {
	t.Helper()

	tiers := []*countingHandler{
		{inner: chain.Level("junior", 1, "handled by junior support")},
		{inner: chain.Level("senior", 2, "handled by senior support")},
		{inner: chain.Level("lead", 3, "handled by technical lead")},
		{inner: chain.Level("manager", 4, "handled by manager")},
	}

	c := chain.New()
	for _, tier := range tiers {
		if err := c.Append(tier); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return c, tiers
}

func TestChain_Dispatch(t *testing.T) {
	cases := []struct {
		name        string
		level       int
		wantHandled bool
		wantHandler string
	}{
		{"level 1 handled by first tier", 1, true, "junior"},
		{"level 2 handled by second tier", 2, true, "senior"},
		{"level 3 handled by third tier", 3, true, "lead"},
		{"level 4 handled by fourth tier", 4, true, "manager"},
		{"level 10 exceeds every tier", 10, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, tiers := buildTierChain(t)
			req := domain.NewRequest("support", tc.level, map[string]any{"subject": "help"})

			outcome, err := c.Dispatch(context.Background(), req)
			if err != nil {
				t.Fatalf("Dispatch failed: %v", err)
			}

			if outcome.Handled != tc.wantHandled {
				t.Errorf("Handled = %v, want %v", outcome.Handled, tc.wantHandled)
			}
			if outcome.Handler != tc.wantHandler {
				t.Errorf("Handler = %q, want %q", outcome.Handler, tc.wantHandler)
			}
			if outcome.RequestID != req.ID {
				t.Errorf("RequestID = %q, want %q", outcome.RequestID, req.ID)
			}

			// Exactly one handler accepts; none past the accepting one is consulted.
			totalAccepts := 0
			for _, tier := range tiers {
				totalAccepts += tier.accepts
			}
			if tc.wantHandled && totalAccepts != 1 {
				t.Errorf("expected exactly 1 accept, got %d", totalAccepts)
			}
			if !tc.wantHandled && totalAccepts != 0 {
				t.Errorf("expected no accepts for unhandled request, got %d", totalAccepts)
			}
		})
	}
}

func TestChain_FirstAcceptWins(t *testing.T) {
	second := &countingHandler{inner: chain.Level("second", 5, "")}

	c := chain.New()
	if err := c.Append(chain.Level("first", 5, ""), second); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	outcome, err := c.Dispatch(context.Background(), domain.NewRequest("overlap", 3, nil))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if outcome.Handler != "first" {
		t.Errorf("expected first handler to win, got %q", outcome.Handler)
	}
	if second.consults != 0 {
		t.Errorf("propagation should stop at the accepting handler, second was consulted %d times", second.consults)
	}
}

func TestChain_AppendValidation(t *testing.T) {
	c := chain.New()
	if err := c.Append(nil); err == nil {
		t.Error("expected error for nil handler")
	}
	if err := c.Append(chain.Level("dup", 1, "")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := c.Append(chain.Level("dup", 2, "")); err == nil {
		t.Error("expected error for duplicate handler name")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestChain_HandlerErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	c := chain.New()
	err := c.Append(
		chain.Func("broken", func(ctx context.Context, req domain.Request) (domain.Result, error) {
			return domain.Result{}, boom
		}),
		chain.Level("fallback", 10, ""),
	)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	_, err = c.Dispatch(context.Background(), domain.NewRequest("x", 1, nil))
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped handler error, got %v", err)
	}
}

func TestChain_Hooks(t *testing.T) {
	var accepted, unhandled []string
	hooks := domain.LifecycleHooks{
		OnRequestAccepted: func(_ context.Context, e *domain.DispatchEvent) {
			accepted = append(accepted, e.Handler)
		},
		OnRequestUnhandled: func(_ context.Context, e *domain.DispatchEvent) {
			unhandled = append(unhandled, e.RequestID)
		},
	}

	c := chain.New(chain.WithLifecycleHooks(hooks))
	if err := c.Append(chain.Level("only", 2, "")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	ctx := context.Background()
	if _, err := c.Dispatch(ctx, domain.NewRequest("a", 1, nil)); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	miss := domain.NewRequest("b", 9, nil)
	if _, err := c.Dispatch(ctx, miss); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if len(accepted) != 1 || accepted[0] != "only" {
		t.Errorf("accepted hooks = %v, want [only]", accepted)
	}
	if len(unhandled) != 1 || unhandled[0] != miss.ID {
		t.Errorf("unhandled hooks = %v, want [%s]", unhandled, miss.ID)
	}
}

func TestChain_ConcurrentDispatch(t *testing.T) {
	c, _ := buildTierChain(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(level int) {
			defer wg.Done()
			outcome, err := c.Dispatch(context.Background(), domain.NewRequest("parallel", level, nil))
			if err != nil {
				t.Errorf("Dispatch failed: %v", err)
				return
			}
			wantHandled := level <= 4
			if outcome.Handled != wantHandled {
				t.Errorf("level %d: Handled = %v, want %v", level, outcome.Handled, wantHandled)
			}
		}(i%6 + 1)
	}
	wg.Wait()
}
