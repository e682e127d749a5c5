package chain

import (
	"context"

	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
)

// HandleFunc adapts a plain function into a ports.Handler.
type HandleFunc func(ctx context.Context, req domain.Request) (domain.Result, error)

type funcHandler struct {
	name string
	fn   HandleFunc
}

// Func wraps fn as a named handler. Useful for ad-hoc acceptance predicates
// supplied at construction time instead of patched in later.
func Func(name string, fn HandleFunc) ports.Handler {
	return &funcHandler{name: name, fn: fn}
}

func (h *funcHandler) Name() string {
	return h.name
}

func (h *funcHandler) Handle(ctx context.Context, req domain.Request) (domain.Result, error) {
	return h.fn(ctx, req)
}

type levelHandler struct {
	name     string
	maxLevel int
	reply    string
}

// Level creates a handler that accepts any request whose Level is at or
// below maxLevel. This is the escalation-tier shape: a chain of Level
// handlers in ascending order routes each request to the first tier
// senior enough to take it.
func Level(name string, maxLevel int, reply string) ports.Handler {
	return &levelHandler{name: name, maxLevel: maxLevel, reply: reply}
}

func (h *levelHandler) Name() string {
	return h.name
}

func (h *levelHandler) Handle(ctx context.Context, req domain.Request) (domain.Result, error) {
	if req.Level > h.maxLevel {
		return domain.Result{}, nil
	}
	return domain.Result{Handled: true, Reply: h.reply}, nil
}
