package memory_test

import (
	"testing"

	"github.com/triagekit/triage/pkg/adapters/memory"
	"github.com/triagekit/triage/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunHistoryStoreContract(t, store)
}
