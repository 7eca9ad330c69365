package cache

import (
	"context"
	"sync"
)

// MemoryStore is the ephemeral (session-scope) tier: a process-local map.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	tier Tier
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithTier(Ephemeral)
}

// NewMemoryStoreWithTier builds a map-backed store reporting the given
// tier. Handy as an in-memory stand-in for the durable tier in tests.
func NewMemoryStoreWithTier(tier Tier) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), tier: tier}
}

func (m *MemoryStore) ListKeys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Tier() Tier { return m.tier }
