// Package kv provides the key/value substrate that chat sessions are
// persisted in.
//
// A Store has synchronous get/set/remove semantics over string keys and
// string values, in the manner of a browser's local storage. Stores may be
// capacity bounded: Set reports ErrQuotaExceeded when a write does not fit.
package kv

import (
	"errors"
	"strings"
)

// ErrQuotaExceeded is returned by Set when the store has no room for the value.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// Store is the capability the session store is built on.
type Store interface {
	// Get returns the value stored under key. found is false when the key is absent.
	Get(key string) (value string, found bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// Lister is implemented by stores that can enumerate their keys.
// It is used for diagnostics (integrity checks, inspection) only.
type Lister interface {
	Keys(prefix string) ([]string, error)
}

// hasPrefix reports whether key belongs under prefix. An empty prefix matches everything.
func hasPrefix(key, prefix string) bool {
	return prefix == "" || strings.HasPrefix(key, prefix)
}
