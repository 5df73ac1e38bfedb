package session

import (
	"sync"

	"github.com/compasslabs/compass-agent/pkg/turns"
)

// MemoryStore keeps per-thread conversation history in memory. Threads are
// append-only: each invocation replaces a thread's history with a superset of
// the previous one.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string][]turns.Block
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string][]turns.Block)}
}

// Load returns a copy of the blocks recorded for the thread, possibly empty.
func (m *MemoryStore) Load(threadID string) []turns.Block {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blocks := m.threads[threadID]
	out := make([]turns.Block, len(blocks))
	copy(out, blocks)
	return out
}

// Save records the thread's history. The caller passes the full block list of
// the completed turn, which extends what was loaded.
func (m *MemoryStore) Save(threadID string, blocks []turns.Block) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]turns.Block, len(blocks))
	copy(cp, blocks)
	m.threads[threadID] = cp
}
