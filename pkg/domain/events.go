package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRequestAccepted  EventType = "request_accepted"
	EventRequestUnhandled EventType = "request_unhandled"
	EventCommandExecute   EventType = "command_execute"
	EventCommandUndo      EventType = "command_undo"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// DispatchEvent describes a request passing through a chain.
type DispatchEvent struct {
	EventBase
	RequestID string `json:"request_id"`
	Kind      string `json:"kind"`
	Level     int    `json:"level"`
	// Handler is the accepting handler name; empty for unhandled requests.
	Handler string        `json:"handler,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// CommandEvent describes a command execution or undo.
type CommandEvent struct {
	EventBase
	SessionID string `json:"session_id,omitempty"`
	Command   string `json:"command"`
	IsError   bool   `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil; the engine skips nil hooks.
type LifecycleHooks struct {
	OnRequestAccepted  func(context.Context, *DispatchEvent)
	OnRequestUnhandled func(context.Context, *DispatchEvent)
	OnCommandExecute   func(context.Context, *CommandEvent)
	OnCommandUndo      func(context.Context, *CommandEvent)
}
