package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// TableName is the key/value table sessions are stored in.
const TableName = "ItemTable"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS ItemTable (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// SQLite is a Store backed by a single key/value table in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	store, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLite wraps an open database, creating the key/value table if needed.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create %s table: %w", TableName, err)
	}
	return &SQLite{db: db}, nil
}

// Get implements Store.
func (s *SQLite) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM ItemTable WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// Set implements Store.
func (s *SQLite) Set(key, value string) error {
	if _, err := s.db.Exec("INSERT OR REPLACE INTO ItemTable (key, value) VALUES (?, ?)", key, value); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// Remove implements Store.
func (s *SQLite) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM ItemTable WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// Keys implements Lister.
func (s *SQLite) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT key FROM ItemTable WHERE key LIKE ? ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return keys, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// escapeLike escapes the LIKE wildcards in s. Session keys contain '_'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

var (
	_ Store  = (*SQLite)(nil)
	_ Lister = (*SQLite)(nil)
)
