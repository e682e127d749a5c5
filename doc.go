/*
Package triage is a request-dispatch engine with undoable commands, designed
for building support-desk style escalation flows, CLIs and automation
pipelines.

It combines two cooperating cores: a dispatch chain that walks a request
past handlers in order until one accepts it, and a command runtime that
executes named, reversible commands against durable per-session undo
histories.

# Concept

A Request carries a kind, a severity level and an arbitrary payload. The
chain consults its handlers in registration order; the first one whose
policy accepts the request resolves it, and later handlers are never
consulted. A request no handler accepts yields an unhandled Outcome, which
is a valid answer rather than an error.

Commands are built by name through a registry, so every executed command
can be journaled and rebuilt later. Undo pops the most recent journal
entry, rebuilds the command and runs its inverse. Journals persist through
a pluggable HistoryStore (in-memory, file or Redis), which makes undo
survive process restarts.

# Key Features

  - First-accept-wins dispatch: deterministic handler consultation order.
  - Durable undo: journals outlive the process via pluggable stores.
  - Hexagonal architecture: core logic is decoupled from adapters.
  - Distributed coordination: optional Redis locks for multi-replica use.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/triagekit/triage"
		"github.com/triagekit/triage/pkg/chain"
		"github.com/triagekit/triage/pkg/domain"
	)

	func main() {
		eng, err := triage.New(
			triage.WithHandlers(
				chain.Level("junior", 1, "handled at tier 1"),
				chain.Level("senior", 3, "handled at tier 2"),
			),
		)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		outcome, err := eng.Dispatch(ctx, domain.NewRequest("login-issue", 2, nil))
		if err != nil {
			log.Fatal(err)
		}
		if outcome.Handled {
			log.Printf("resolved by %s: %s", outcome.Handler, outcome.Reply)
		} else {
			log.Printf("no handler accepted the request")
		}
	}
*/
package triage
