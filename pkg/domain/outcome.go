package domain

// Outcome reports how a dispatch ended. An unhandled request is a normal,
// caller-visible result, not an error: the chain simply ran out of handlers.
type Outcome struct {
	// RequestID echoes the ID of the dispatched request.
	RequestID string `json:"request_id"`

	// Handled is true if some handler accepted the request.
	Handled bool `json:"handled"`

	// Handler is the name of the accepting handler. Empty when unhandled.
	Handler string `json:"handler,omitempty"`

	// Reply is optional content produced by the accepting handler
	// (e.g. a resolution message shown to the submitter).
	Reply string `json:"reply,omitempty"`
}

// Result is what a single handler reports back to the chain.
// Handled=false means "not mine, try the next one".
type Result struct {
	Handled bool
	Reply   string
}

// Unhandled builds the outcome for a request that fell off the end of the chain.
func Unhandled(requestID string) Outcome {
	return Outcome{RequestID: requestID}
}

// Accepted builds the outcome for a request satisfied by the named handler.
func Accepted(requestID, handler, reply string) Outcome {
	return Outcome{
		RequestID: requestID,
		Handled:   true,
		Handler:   handler,
		Reply:     reply,
	}
}
