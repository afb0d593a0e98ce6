package storage

import "sync"

// MemoryKV keeps entries in process memory. It is what tests and
// one-shot sessions use.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]string
	quota   int
}

// NewMemoryKV returns an empty store. quota <= 0 disables the byte limit.
func NewMemoryKV(quota int) *MemoryKV {
	return &MemoryKV{entries: make(map[string]string), quota: quota}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !fits(m.entries, key, value, m.quota) {
		return ErrQuotaExceeded
	}
	m.entries[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
