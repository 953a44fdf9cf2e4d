package cache

import (
	"context"
	"sync"
	"time"
)

// memoryStore is the in-process fallback: two parallel maps (value, expiry)
// guarded by a single mutex. Expired entries are invisible to reads and are
// physically removed by Sweep.
type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	expiry map[string]time.Time

	// now is swappable for tests.
	now func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		values: make(map[string][]byte),
		expiry: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok || m.expired(key) {
		return nil, false, nil
	}
	return value, true, nil
}

func (m *memoryStore) GetMany(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if value, ok := m.values[key]; ok && !m.expired(key) {
			out[key] = value
		}
	}
	return out, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	m.expiry[key] = expiresAt
	return nil
}

func (m *memoryStore) SetMany(_ context.Context, entries map[string][]byte, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range entries {
		m.values[key] = value
		m.expiry[key] = expiresAt
	}
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	delete(m.expiry, key)
	return nil
}

func (m *memoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string][]byte)
	m.expiry = make(map[string]time.Time)
	return nil
}

func (m *memoryStore) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		if !m.expired(key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Sweep removes expired entries and reports how many were dropped. It
// iterates a snapshot of keys so the maps are never mutated mid-iteration,
// and takes the write lock only for the final removal pass.
func (m *memoryStore) Sweep(_ context.Context) (int, error) {
	m.mu.RLock()
	snapshot := make([]string, 0, len(m.values))
	for key := range m.values {
		snapshot = append(snapshot, key)
	}
	m.mu.RUnlock()

	removed := 0
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range snapshot {
		if m.expired(key) {
			delete(m.values, key)
			delete(m.expiry, key)
			removed++
		}
	}
	return removed, nil
}

// expired reports whether a key's entry is past its deadline. Callers must
// hold at least the read lock.
func (m *memoryStore) expired(key string) bool {
	deadline, ok := m.expiry[key]
	if !ok {
		return false
	}
	return !m.now().Before(deadline)
}
