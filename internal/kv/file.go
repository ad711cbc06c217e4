package kv

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// File is a Store kept as one JSON object on disk. Every mutation rewrites
// the file atomically (temp file + rename).
type File struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

// OpenFile loads the store at path. A missing file is an empty store; a file
// that is not a JSON object of strings is an error.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	f := &File{
		path:  path,
		items: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store file %s: %w", path, err)
	}
	if f.items == nil {
		f.items = make(map[string]string)
	}

	return f, nil
}

// Get implements Store.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.items[key]
	return value, ok, nil
}

// Set implements Store.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := maps.Clone(f.items)
	next[key] = value
	if err := f.persist(next); err != nil {
		return err
	}
	f.items = next
	return nil
}

// Remove implements Store.
func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[key]; !ok {
		return nil
	}
	next := maps.Clone(f.items)
	delete(next, key)
	if err := f.persist(next); err != nil {
		return err
	}
	f.items = next
	return nil
}

// Keys implements Lister.
func (f *File) Keys(prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.items))
	for key := range f.items {
		if hasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) persist(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	if err := atomicWriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

// atomicWriteFile writes data to a temp file in the target directory, syncs
// it and renames it over path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

var (
	_ Store  = (*File)(nil)
	_ Lister = (*File)(nil)
)
