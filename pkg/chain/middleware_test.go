package chain_test

import (
	"context"
	"strings"
	"testing"

	"github.com/triagekit/triage/pkg/chain"
	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
)

func TestRecover_ContainsPanic(t *testing.T) {
	panicky := chain.Func("panicky", func(ctx context.Context, req domain.Request) (domain.Result, error) {
		panic("handler bug")
	})

	h := chain.Wrap(panicky, chain.Recover())
	_, err := h.Handle(context.Background(), domain.NewRequest("x", 1, nil))
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	if !strings.Contains(err.Error(), "panicky") || !strings.Contains(err.Error(), "handler bug") {
		t.Errorf("unexpected error message: %v", err)
	}
	if h.Name() != "panicky" {
		t.Errorf("middleware should preserve handler name, got %q", h.Name())
	}
}

// tagHandler records the order in which middlewares run.
type tagHandler struct {
	next  ports.Handler
	label string
	trace *[]string
}

func (h *tagHandler) Name() string { return h.next.Name() }

func (h *tagHandler) Handle(ctx context.Context, req domain.Request) (domain.Result, error) {
	*h.trace = append(*h.trace, h.label)
	return h.next.Handle(ctx, req)
}

func TestWrap_FirstListedIsOutermost(t *testing.T) {
	var trace []string
	tag := func(label string) chain.Middleware {
		return func(next ports.Handler) ports.Handler {
			return &tagHandler{next: next, label: label, trace: &trace}
		}
	}

	base := chain.Level("base", 5, "")
	h := chain.Wrap(base, tag("outer"), tag("inner"))

	if _, err := h.Handle(context.Background(), domain.NewRequest("x", 1, nil)); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if len(trace) != 2 || trace[0] != "outer" || trace[1] != "inner" {
		t.Errorf("trace = %v, want [outer inner]", trace)
	}
}
