package kv

import (
	"sort"
	"sync"
)

// Memory is an in-process Store. A positive quota bounds the total size
// (len(key)+len(value) summed over all entries) in bytes.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
	quota int
	used  int
}

// NewMemory creates a Memory store. quota <= 0 means unbounded.
func NewMemory(quota int) *Memory {
	return &Memory{
		items: make(map[string]string),
		quota: quota,
	}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

// Set implements Store.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delta := len(key) + len(value)
	if old, ok := m.items[key]; ok {
		delta -= len(key) + len(old)
	}
	if m.quota > 0 && m.used+delta > m.quota {
		return ErrQuotaExceeded
	}

	m.items[key] = value
	m.used += delta
	return nil
}

// Remove implements Store.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.items[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}

// Keys implements Lister. Keys are returned sorted.
func (m *Memory) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for key := range m.items {
		if hasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Used returns the number of bytes counted against the quota.
func (m *Memory) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}

var (
	_ Store  = (*Memory)(nil)
	_ Lister = (*Memory)(nil)
)
