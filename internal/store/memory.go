package store

import (
	"context"
	"sync"
)

// MemoryStore keeps all player state in process memory. Used by tests and
// by local runs without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	devices map[string]int64
	data    map[int64]map[string][]byte
	nextID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		devices: make(map[string]int64),
		data:    make(map[int64]map[string][]byte),
		nextID:  1,
	}
}

func (m *MemoryStore) EnsurePlayer(ctx context.Context, deviceID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.devices[deviceID]; ok {
		return id, nil
	}
	id := m.nextID
	m.nextID++
	m.devices[deviceID] = id
	m.data[id] = make(map[string][]byte)
	return id, nil
}

func (m *MemoryStore) Players(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemoryStore) Get(ctx context.Context, playerID int64, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kv, ok := m.data[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	raw, ok := kv[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (m *MemoryStore) Set(ctx context.Context, playerID int64, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kv, ok := m.data[playerID]
	if !ok {
		kv = make(map[string][]byte)
		m.data[playerID] = kv
	}
	kv[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) SetAll(ctx context.Context, playerID int64, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kv, ok := m.data[playerID]
	if !ok {
		kv = make(map[string][]byte)
		m.data[playerID] = kv
	}
	for k, v := range values {
		kv[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, playerID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kv, ok := m.data[playerID]; ok {
		delete(kv, key)
	}
	return nil
}
