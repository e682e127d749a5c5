/*
Package ports defines the driven ports (interfaces) for the triage engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various handlers, command implementations, and storage backends.

# Key Interfaces

  - Handler: A unit in a dispatch chain that may satisfy or decline a request.
  - Command: A reified operation supporting forward execution and inverse undo.
  - HistoryStore: Responsible for persisting and loading session undo journals.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
