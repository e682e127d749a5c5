package command

import (
	"context"

	"github.com/triagekit/triage/pkg/ports"
)

type funcCommand struct {
	name    string
	execute func(ctx context.Context) error
	undo    func(ctx context.Context) error
}

// Func builds a command from a forward/inverse pair of closures.
// Both functions must be non-nil; a command without an inverse cannot
// participate in undo.
func Func(name string, execute, undo func(ctx context.Context) error) ports.Command {
	if execute == nil || undo == nil {
		panic("command.Func: execute and undo must both be provided")
	}
	return &funcCommand{name: name, execute: execute, undo: undo}
}

func (c *funcCommand) Name() string {
	return c.name
}

func (c *funcCommand) Execute(ctx context.Context) error {
	return c.execute(ctx)
}

func (c *funcCommand) Undo(ctx context.Context) error {
	return c.undo(ctx)
}
