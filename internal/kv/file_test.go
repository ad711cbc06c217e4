package kv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenFile(t *testing.T) {
	t.Run("empty path returns error", func(t *testing.T) {
		if _, err := OpenFile(""); err == nil {
			t.Fatal("expected error for empty path")
		}
	})

	t.Run("missing file is an empty store", func(t *testing.T) {
		f, err := OpenFile(filepath.Join(t.TempDir(), "store.json"))
		if err != nil {
			t.Fatalf("OpenFile() error = %v", err)
		}
		keys, _ := f.Keys("")
		if len(keys) != 0 {
			t.Errorf("expected no keys, got %v", keys)
		}
	})

	t.Run("corrupt file returns error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := OpenFile(path); err == nil {
			t.Fatal("expected error for corrupt store file")
		}
	})
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "store.json")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if err := f.Set("chat_s1", `[{"text":"hi","isUser":true,"timestamp":1}]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := f.Set("chat_s2", "[]"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := f.Remove("chat_s2"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() reopen error = %v", err)
	}
	if _, found, _ := reopened.Get("chat_s2"); found {
		t.Error("removed key survived reopen")
	}
	value, found, _ := reopened.Get("chat_s1")
	if !found || value != `[{"text":"hi","isUser":true,"timestamp":1}]` {
		t.Errorf("Get(chat_s1) after reopen = %q, %v", value, found)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the store file in directory, found %d entries", len(entries))
	}
}

func TestFile_FailedWriteKeepsState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if err := f.Set("a", "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Replacing the target with a directory makes the rename fail.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := f.Set("b", "2"); err == nil {
		t.Fatal("expected Set() to fail when the store file cannot be replaced")
	}
	if _, found, _ := f.Get("b"); found {
		t.Error("failed write must not be visible")
	}
	if value, _, _ := f.Get("a"); value != "1" {
		t.Errorf("Get(a) = %q, want \"1\"", value)
	}
}
