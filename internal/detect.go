package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the directory under the home directory holding the
	// store and its configuration
	DefaultDirName = ".chat-session"

	databaseFileName = "sessions.db"
	jsonFileName     = "sessions.json"
	configFileName   = "config.yaml"
)

// StoragePaths holds the locations of the on-disk stores and the config file
type StoragePaths struct {
	BaseDir      string // directory holding everything below
	DatabasePath string // SQLite backend
	FilePath     string // JSON file backend
	ConfigPath   string
}

// DetectStoragePaths returns the default paths under the user's home directory
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}
	return pathsIn(filepath.Join(home, DefaultDirName)), nil
}

// GetStoragePaths resolves paths for a custom storage location. An empty
// location selects the defaults. A directory (existing, or a path without an
// extension) holds the default file names; anything else is used as the
// store file itself.
func GetStoragePaths(custom string) (StoragePaths, error) {
	if custom == "" {
		return DetectStoragePaths()
	}

	abs, err := filepath.Abs(custom)
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to resolve storage path %s: %w", custom, err)
	}

	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return pathsIn(abs), nil
	}
	if filepath.Ext(abs) == "" {
		return pathsIn(abs), nil
	}

	paths := pathsIn(filepath.Dir(abs))
	paths.DatabasePath = abs
	paths.FilePath = abs
	return paths, nil
}

func pathsIn(dir string) StoragePaths {
	return StoragePaths{
		BaseDir:      dir,
		DatabasePath: filepath.Join(dir, databaseFileName),
		FilePath:     filepath.Join(dir, jsonFileName),
		ConfigPath:   filepath.Join(dir, configFileName),
	}
}

// PathFor returns the store path used by backend
func (sp StoragePaths) PathFor(backend string) string {
	if backend == BackendFile {
		return sp.FilePath
	}
	return sp.DatabasePath
}

// Exists checks whether the store file for backend exists
func (sp StoragePaths) Exists(backend string) bool {
	if backend == BackendMemory {
		return false
	}
	_, err := os.Stat(sp.PathFor(backend))
	return err == nil
}
