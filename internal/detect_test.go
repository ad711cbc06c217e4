package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/chat-session/testutil"
)

func TestDetectStoragePaths(t *testing.T) {
	paths, err := DetectStoragePaths()
	if err != nil {
		t.Fatalf("DetectStoragePaths() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	expectedBase := filepath.Join(home, DefaultDirName)
	if paths.BaseDir != expectedBase {
		t.Errorf("BaseDir = %v, want %v", paths.BaseDir, expectedBase)
	}
	if paths.DatabasePath != filepath.Join(expectedBase, "sessions.db") {
		t.Errorf("DatabasePath = %v", paths.DatabasePath)
	}
	if paths.ConfigPath != filepath.Join(expectedBase, "config.yaml") {
		t.Errorf("ConfigPath = %v", paths.ConfigPath)
	}
}

func TestGetStoragePaths(t *testing.T) {
	tmpDir := testutil.CreateTempDir(t)

	tests := []struct {
		name     string
		custom   string
		wantBase string
		wantDB   string
		wantFile string
	}{
		{
			name:     "existing directory",
			custom:   tmpDir,
			wantBase: tmpDir,
			wantDB:   filepath.Join(tmpDir, "sessions.db"),
			wantFile: filepath.Join(tmpDir, "sessions.json"),
		},
		{
			name:     "new directory without extension",
			custom:   filepath.Join(tmpDir, "store"),
			wantBase: filepath.Join(tmpDir, "store"),
			wantDB:   filepath.Join(tmpDir, "store", "sessions.db"),
			wantFile: filepath.Join(tmpDir, "store", "sessions.json"),
		},
		{
			name:     "explicit database file",
			custom:   filepath.Join(tmpDir, "chat.db"),
			wantBase: tmpDir,
			wantDB:   filepath.Join(tmpDir, "chat.db"),
			wantFile: filepath.Join(tmpDir, "chat.db"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := GetStoragePaths(tt.custom)
			if err != nil {
				t.Fatalf("GetStoragePaths() error = %v", err)
			}
			if paths.BaseDir != tt.wantBase {
				t.Errorf("BaseDir = %v, want %v", paths.BaseDir, tt.wantBase)
			}
			if paths.DatabasePath != tt.wantDB {
				t.Errorf("DatabasePath = %v, want %v", paths.DatabasePath, tt.wantDB)
			}
			if paths.FilePath != tt.wantFile {
				t.Errorf("FilePath = %v, want %v", paths.FilePath, tt.wantFile)
			}
		})
	}
}

func TestStoragePaths_PathFor(t *testing.T) {
	paths := pathsIn("/tmp/x")

	if got := paths.PathFor(BackendSQLite); got != paths.DatabasePath {
		t.Errorf("PathFor(sqlite) = %v, want %v", got, paths.DatabasePath)
	}
	if got := paths.PathFor(BackendFile); got != paths.FilePath {
		t.Errorf("PathFor(file) = %v, want %v", got, paths.FilePath)
	}
	if paths.Exists(BackendMemory) {
		t.Error("Exists(memory) = true, want false")
	}
}

func TestStoragePaths_Exists(t *testing.T) {
	tmpDir := testutil.CreateTempDir(t)
	paths := pathsIn(tmpDir)

	if paths.Exists(BackendFile) {
		t.Error("Exists(file) = true before the file was created")
	}
	if err := os.WriteFile(paths.FilePath, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to create store file: %v", err)
	}
	if !paths.Exists(BackendFile) {
		t.Error("Exists(file) = false after the file was created")
	}
}
