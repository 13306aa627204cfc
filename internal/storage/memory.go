// README: In-memory KV used by tests and local runs.
package storage

import (
	"context"
	"fmt"
	"sync"

	"taxibook/internal/types"
)

type MemoryKV struct {
	mu      sync.RWMutex
	records map[string]string
	// Fail, when set, makes every call fail as if the store were unreachable.
	Fail error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{records: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return "", false, fmt.Errorf("%w: memory get %s: %v", types.ErrPersistenceUnavailable, key, m.Fail)
	}
	v, ok := m.records[key]
	return v, ok, nil
}

func (m *MemoryKV) Write(_ context.Context, b Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return fmt.Errorf("%w: memory write: %v", types.ErrPersistenceUnavailable, m.Fail)
	}
	for k, v := range b.Set {
		m.records[k] = v
	}
	for _, k := range b.Delete {
		delete(m.records, k)
	}
	return nil
}

func (m *MemoryKV) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return fmt.Errorf("%w: %v", types.ErrPersistenceUnavailable, m.Fail)
	}
	return nil
}

// Put seeds a raw record, bypassing the codec.
func (m *MemoryKV) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = value
}

// Len returns how many records are stored.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
