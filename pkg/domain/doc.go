/*
Package domain contains the core domain models shared across the triage engine.

It defines the fundamental entities of the dispatch pipeline: Requests, their
Outcomes, and the undo Journal of a session. This package is kept pure and free
of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Request: An immutable payload with a numeric severity level, submitted to a chain.
  - Outcome: The caller-visible result of a dispatch (handled or unhandled, never fatal).
  - Journal: The ordered record of executed commands for a session, enabling undo.
  - LifecycleHooks: Observability callbacks fired on dispatch and command events.
*/
package domain
