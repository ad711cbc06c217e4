package testutil

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrInjected is returned by FailingStore for operations configured to fail.
var ErrInjected = errors.New("injected storage failure")

// FailingStore is an in-memory key/value store whose writes can be made to
// fail, per key or globally. It satisfies kv.Store and kv.Lister.
type FailingStore struct {
	mu         sync.Mutex
	Items      map[string]string
	FailSets   bool
	FailGets   bool
	FailRemove bool
	FailKeys   map[string]bool // Set/Remove on these keys fail
	Sets       int
}

// NewFailingStore creates a FailingStore with no failures configured.
func NewFailingStore() *FailingStore {
	return &FailingStore{
		Items:    make(map[string]string),
		FailKeys: make(map[string]bool),
	}
}

func (f *FailingStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailGets {
		return "", false, ErrInjected
	}
	value, ok := f.Items[key]
	return value, ok, nil
}

func (f *FailingStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSets || f.FailKeys[key] {
		return ErrInjected
	}
	f.Sets++
	f.Items[key] = value
	return nil
}

func (f *FailingStore) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailRemove || f.FailKeys[key] {
		return ErrInjected
	}
	delete(f.Items, key)
	return nil
}

func (f *FailingStore) Keys(prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for key := range f.Items {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
