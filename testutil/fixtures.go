package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Item is a raw key/value pair as the session store persists it.
type Item struct {
	Key   string
	Value string
}

// SampleItems returns the persisted form of a "chat" store with two
// sessions. session_b is the most recent and current; session_a has a
// message log with out-of-order timestamps.
func SampleItems() []Item {
	return []Item{
		{
			Key:   "chat_sessions",
			Value: `[{"id":"session_b","title":"second","timestamp":2000,"messagesKey":"chat_session_b"},{"id":"session_a","title":"hello worl…","timestamp":1000,"messagesKey":"chat_session_a"}]`,
		},
		{
			Key:   "chat_session_a",
			Value: `[{"text":"hi there","isUser":false,"timestamp":1200},{"text":"hello world123","isUser":true,"timestamp":1100}]`,
		},
		{
			Key:   "chat_session_b",
			Value: `[]`,
		},
		{
			Key:   "chat_current_session_id",
			Value: "session_b",
		},
	}
}

// CreateSQLiteFixture creates a SQLite database file holding SampleItems
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(createItemTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	for _, item := range SampleItems() {
		value := item.Value
		InsertItem(t, db, item.Key, &value)
	}
}
