package settings

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemoryStore is a Store that lives for the process only.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]*yaml.Node
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[string]*yaml.Node)}
}

func (m *MemoryStore) Get(key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.values[key]
	if !ok {
		return false, nil
	}
	if err := node.Decode(out); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (m *MemoryStore) Update(key string, value any) error {
	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	m.mu.Lock()
	m.values[key] = node
	m.mu.Unlock()
	return nil
}
