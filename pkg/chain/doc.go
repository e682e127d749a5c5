/*
Package chain implements the ordered dispatch chain at the heart of triage.

A Chain holds handlers in escalation order. Dispatch offers the request to
each handler in turn; the first one to accept wins and propagation stops
(no backtracking). If no handler accepts, the dispatch reports an unhandled
Outcome to the caller. Unhandled is a result, never an error.

The chain is acyclic and finite by construction: handlers live in a slice,
and duplicate registrations are rejected. A built chain holds no per-request
state, so concurrent dispatches are independent.
*/
package chain
