/*
Package session implements session management and persistence orchestration.

It provides high-level abstractions for handling concurrent access to session
undo journals across multiple replicas, integrating in-process locks with
distributed locking and long-term storage adapters.
*/
package session
