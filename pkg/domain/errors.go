package domain

import "errors"

// ErrNothingToUndo is returned when undo is requested against an empty history.
// It is a signal, not a failure: callers check it with errors.Is and report
// "nothing to undo" to the user.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownCommand is returned when a command name has no registered factory.
var ErrUnknownCommand = errors.New("unknown command")
