package domain

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry records a single executed command so it can be rebuilt
// (via the command registry) and undone after a restart.
type JournalEntry struct {
	ID         string         `json:"id"`
	Command    string         `json:"command"`
	Args       map[string]any `json:"args,omitempty"`
	ExecutedAt time.Time      `json:"executed_at"`
}

// NewJournalEntry creates an entry for the named command invocation.
func NewJournalEntry(command string, args map[string]any) JournalEntry {
	copied := make(map[string]any, len(args))
	for k, v := range args {
		copied[k] = v
	}
	return JournalEntry{
		ID:         uuid.NewString(),
		Command:    command,
		Args:       copied,
		ExecutedAt: time.Now().UTC(),
	}
}

// Journal is the durable undo history of a session.
// Entries are pushed on execute and popped on undo; only an explicit
// Reset empties it wholesale.
type Journal struct {
	// SessionID identifies the owning session.
	SessionID string `json:"session_id"`

	// Entries are ordered oldest first. The undo candidate is the last one.
	Entries []JournalEntry `json:"entries"`

	// UpdatedAt tracks the last mutation, useful for store TTL decisions.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewJournal creates an empty journal for the session.
func NewJournal(sessionID string) *Journal {
	return &Journal{
		SessionID: sessionID,
		Entries:   []JournalEntry{},
		UpdatedAt: time.Now().UTC(),
	}
}

// Push appends an entry to the history.
func (j *Journal) Push(entry JournalEntry) {
	j.Entries = append(j.Entries, entry)
	j.UpdatedAt = time.Now().UTC()
}

// Pop removes and returns the most recent entry.
// Returns ErrNothingToUndo when the journal is empty.
func (j *Journal) Pop() (JournalEntry, error) {
	if len(j.Entries) == 0 {
		return JournalEntry{}, ErrNothingToUndo
	}
	last := j.Entries[len(j.Entries)-1]
	j.Entries = j.Entries[:len(j.Entries)-1]
	j.UpdatedAt = time.Now().UTC()
	return last, nil
}

// Len returns the number of recorded entries.
func (j *Journal) Len() int {
	return len(j.Entries)
}

// Reset drops the whole history. This is the only wholesale clear.
func (j *Journal) Reset() {
	j.Entries = j.Entries[:0]
	j.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy so stores can hand out snapshots safely.
func (j *Journal) Clone() *Journal {
	copied := &Journal{
		SessionID: j.SessionID,
		Entries:   make([]JournalEntry, len(j.Entries)),
		UpdatedAt: j.UpdatedAt,
	}
	for i, e := range j.Entries {
		args := make(map[string]any, len(e.Args))
		for k, v := range e.Args {
			args[k] = v
		}
		e.Args = args
		copied.Entries[i] = e
	}
	return copied
}
