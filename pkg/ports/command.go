package ports

import "context"

// Command is a reified, undoable operation against some receiver.
// Execute performs the forward operation; Undo performs the exact inverse.
// Undo is only ever invoked through the history: clients never call it
// directly on a stale reference.
type Command interface {
	// Name identifies the command for journaling and observability.
	Name() string

	// Execute performs the forward operation.
	Execute(ctx context.Context) error

	// Undo reverses a previously successful Execute.
	Undo(ctx context.Context) error
}
