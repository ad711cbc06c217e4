package internal

import (
	"encoding/json"
	"fmt"

	"github.com/iksnae/chat-session/internal/kv"
)

// Storage reads and writes the persisted form of a session store: the
// session index, the message logs and the current session pointer, all as
// JSON values under prefixed keys.
type Storage struct {
	kv     kv.Store
	prefix string
}

// NewStorage creates a new Storage instance
func NewStorage(store kv.Store, prefix string) *Storage {
	return &Storage{kv: store, prefix: prefix}
}

// Prefix returns the key prefix
func (s *Storage) Prefix() string {
	return s.prefix
}

// LoadIndex loads the session index. An absent index is empty.
func (s *Storage) LoadIndex() ([]Session, error) {
	var sessions []Session
	if err := s.loadJSON(SessionsKey(s.prefix), &sessions); err != nil {
		return []Session{}, err
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
}

// SaveIndex persists the session index
func (s *Storage) SaveIndex(sessions []Session) error {
	if sessions == nil {
		sessions = []Session{}
	}
	return s.saveJSON(SessionsKey(s.prefix), sessions)
}

// LoadMessages loads the message log stored under key. An absent log is empty.
func (s *Storage) LoadMessages(key string) ([]Message, error) {
	var messages []Message
	if err := s.loadJSON(key, &messages); err != nil {
		return []Message{}, err
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// SaveMessages persists a message log under key
func (s *Storage) SaveMessages(key string, messages []Message) error {
	if messages == nil {
		messages = []Message{}
	}
	return s.saveJSON(key, messages)
}

// RemoveMessages deletes the message log stored under key
func (s *Storage) RemoveMessages(key string) error {
	return s.Remove(key)
}

// Remove deletes any key
func (s *Storage) Remove(key string) error {
	if err := s.kv.Remove(key); err != nil {
		return &StorageError{Key: key, Op: "remove", Err: err}
	}
	return nil
}

// LoadPointer loads the persisted current session id
func (s *Storage) LoadPointer() (string, bool, error) {
	key := CurrentSessionKey(s.prefix)
	id, found, err := s.kv.Get(key)
	if err != nil {
		return "", false, &StorageError{Key: key, Op: "get", Err: err}
	}
	if !found || id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// SavePointer persists the current session id
func (s *Storage) SavePointer(id string) error {
	key := CurrentSessionKey(s.prefix)
	if err := s.kv.Set(key, id); err != nil {
		return &StorageError{Key: key, Op: "set", Err: err}
	}
	return nil
}

// Keys lists every key under this store's prefix, if the backend can
func (s *Storage) Keys() ([]string, error) {
	lister, ok := s.kv.(kv.Lister)
	if !ok {
		return nil, ErrListingUnsupported
	}
	keys, err := lister.Keys(s.prefix + "_")
	if err != nil {
		return nil, &StorageError{Key: s.prefix + "_*", Op: "list", Err: err}
	}
	return keys, nil
}

// Raw returns the raw stored value under key
func (s *Storage) Raw(key string) (string, bool, error) {
	value, found, err := s.kv.Get(key)
	if err != nil {
		return "", false, &StorageError{Key: key, Op: "get", Err: err}
	}
	return value, found, nil
}

func (s *Storage) loadJSON(key string, v interface{}) error {
	value, found, err := s.kv.Get(key)
	if err != nil {
		return &StorageError{Key: key, Op: "get", Err: err}
	}
	if !found || value == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		return &CorruptDataError{Key: key, Err: err}
	}
	return nil
}

func (s *Storage) saveJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.kv.Set(key, string(data)); err != nil {
		return &StorageError{Key: key, Op: "set", Err: err}
	}
	return nil
}
