package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triagekit/triage/pkg/domain"
)

// RunHistoryStoreContract runs a suite of tests to verify that a HistoryStore
// implementation adheres to the defined interface contract.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		journal := domain.NewJournal(sessionID)
		journal.Push(domain.NewJournalEntry("light.on", map[string]any{"room": "kitchen"}))
		journal.Push(domain.NewJournalEntry("light.off", map[string]any{"room": "hall"}))

		err := store.Save(ctx, sessionID, journal)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Entries, 2)
		assert.Equal(t, "light.on", loaded.Entries[0].Command)
		assert.Equal(t, "kitchen", loaded.Entries[0].Args["room"])
		assert.Equal(t, "light.off", loaded.Entries[1].Command)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Load Is a Snapshot", func(t *testing.T) {
		journal := domain.NewJournal(sessionID)
		journal.Push(domain.NewJournalEntry("light.on", nil))
		require.NoError(t, store.Save(ctx, sessionID, journal))

		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		first.Reset()

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 1, second.Len(), "mutating a loaded journal must not affect the store")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewJournal(sessionID)))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewJournal(id1))
		_ = store.Save(ctx, id2, domain.NewJournal(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
