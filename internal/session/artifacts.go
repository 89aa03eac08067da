package session

import (
	"fmt"
	"sync"
)

// ArtifactRegistry holds rendered decks until they are released.
type ArtifactRegistry interface {
	Put(data []byte) ArtifactID
	Get(id ArtifactID) ([]byte, bool)
	Release(id ArtifactID)
}

// MemoryRegistry keeps artifacts in memory.
type MemoryRegistry struct {
	mu    sync.Mutex
	next  uint64
	items map[ArtifactID][]byte
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{items: make(map[ArtifactID][]byte)}
}

// Put stores data and returns its handle.
func (m *MemoryRegistry) Put(data []byte) ArtifactID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := ArtifactID(fmt.Sprintf("artifact-%d", m.next))
	m.items[id] = data
	return id
}

// Get returns the artifact bytes.
func (m *MemoryRegistry) Get(id ArtifactID) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[id]
	return data, ok
}

// Release frees the artifact. Releasing an unknown or empty id is a no-op.
func (m *MemoryRegistry) Release(id ArtifactID) {
	if id == "" {
		return
	}
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
}

// Live reports how many artifacts are held.
func (m *MemoryRegistry) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
