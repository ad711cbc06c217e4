package kv

import (
	"errors"
	"reflect"
	"testing"
)

func TestMemory_GetSetRemove(t *testing.T) {
	m := NewMemory(0)

	if _, found, err := m.Get("missing"); err != nil || found {
		t.Fatalf("Get(missing) found = %v, err = %v, want absent", found, err)
	}

	if err := m.Set("a", "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, found, err := m.Get("a")
	if err != nil || !found || value != "1" {
		t.Errorf("Get(a) = %q, %v, %v; want \"1\", true, nil", value, found, err)
	}

	if err := m.Set("a", "22"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if value, _, _ := m.Get("a"); value != "22" {
		t.Errorf("Get(a) after overwrite = %q, want \"22\"", value)
	}

	if err := m.Remove("a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, found, _ := m.Get("a"); found {
		t.Error("Get(a) after Remove should be absent")
	}
	if err := m.Remove("a"); err != nil {
		t.Errorf("Remove() of absent key error = %v, want nil", err)
	}
	if m.Used() != 0 {
		t.Errorf("Used() = %d after removing everything, want 0", m.Used())
	}
}

func TestMemory_Quota(t *testing.T) {
	m := NewMemory(10)

	if err := m.Set("k", "12345"); err != nil {
		t.Fatalf("Set() within quota error = %v", err)
	}
	if got := m.Used(); got != 6 {
		t.Errorf("Used() = %d, want 6", got)
	}

	err := m.Set("x", "123456789")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Set() over quota error = %v, want ErrQuotaExceeded", err)
	}
	if _, found, _ := m.Get("x"); found {
		t.Error("rejected write must not be stored")
	}

	// Replacing a value only counts the difference.
	if err := m.Set("k", "123456789"); err != nil {
		t.Errorf("Set() replacing value within quota error = %v", err)
	}
	if got := m.Used(); got != 10 {
		t.Errorf("Used() = %d, want 10", got)
	}
}

func TestMemory_Keys(t *testing.T) {
	m := NewMemory(0)
	for _, key := range []string{"chat_sessions", "chat_b", "calculator_sessions", "chat_a"} {
		if err := m.Set(key, "[]"); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	keys, err := m.Keys("chat_")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []string{"chat_a", "chat_b", "chat_sessions"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys(chat_) = %v, want %v", keys, want)
	}

	all, _ := m.Keys("")
	if len(all) != 4 || m.Len() != 4 {
		t.Errorf("Keys(\"\") returned %d keys, Len() = %d, want 4", len(all), m.Len())
	}
}
