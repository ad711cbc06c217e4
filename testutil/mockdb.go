package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const createItemTableSQL = `
CREATE TABLE IF NOT EXISTS ItemTable (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// CreateInMemoryDB creates an in-memory SQLite database with the ItemTable
// key/value table for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createItemTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create ItemTable table: %v", err)
	}

	return db
}

// CreateTestDB creates a test database holding two chat sessions, with
// the second one current
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	for _, item := range SampleItems() {
		value := item.Value
		InsertItem(t, db, item.Key, &value)
	}

	return db
}

// InsertItem inserts a raw key/value pair. A nil value stores SQL NULL.
func InsertItem(t *testing.T, db *sql.DB, key string, value *string) {
	t.Helper()
	insertSQL := "INSERT OR REPLACE INTO ItemTable (key, value) VALUES (?, ?)"
	var arg interface{}
	if value != nil {
		arg = *value
	}
	if _, err := db.Exec(insertSQL, key, arg); err != nil {
		t.Fatalf("Failed to insert item %s: %v", key, err)
	}
}
