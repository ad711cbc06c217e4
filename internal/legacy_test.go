package internal

import (
	"testing"

	"github.com/iksnae/chat-session/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MigrateLegacyHistory(t *testing.T) {
	backend := kv.NewMemory(0)
	require.NoError(t, backend.Set(LegacyChatHistoryKey, `[
		{"text":"Thinking about it","isUser":false,"timestamp":"10:30:00 AM"},
		{"text":"what is a monad?","isUser":true,"timestamp":"10:31:07 AM"},
		{"text":"a monoid in the category of endofunctors","isUser":false,"timestamp":"10:31:09 AM"}
	]`))

	s := newTestStore(t, backend)
	require.NoError(t, s.Initialize())

	id, migrated, err := s.MigrateLegacyHistory(LegacyChatHistoryKey)
	require.NoError(t, err)
	require.True(t, migrated)

	current, ok := s.CurrentSession()
	require.True(t, ok)
	assert.Equal(t, id, current.ID)
	assert.Equal(t, "what is a …", current.Title)
	assert.Len(t, s.Sessions(), 2)

	history := s.ReadHistory()
	require.Len(t, history, 3)
	assert.Equal(t, "Thinking about it", history[0].Text)
	assert.Equal(t, "what is a monad?", history[1].Text)
	for _, m := range history {
		assert.False(t, m.Timestamp.IsZero())
	}

	_, found, _ := backend.Get(LegacyChatHistoryKey)
	assert.False(t, found, "legacy key is removed after migration")
}

func TestStore_MigrateLegacyHistoryNothingToDo(t *testing.T) {
	tests := []struct {
		name     string
		value    *string
		wantKept bool
	}{
		{name: "absent"},
		{name: "empty list", value: strPtr("[]")},
		{name: "corrupt", value: strPtr("not json"), wantKept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := kv.NewMemory(0)
			if tt.value != nil {
				require.NoError(t, backend.Set(LegacyCalculatorHistoryKey, *tt.value))
			}
			s := newTestStore(t, backend)

			id, migrated, err := s.MigrateLegacyHistory(LegacyCalculatorHistoryKey)
			require.NoError(t, err)
			assert.False(t, migrated)
			assert.Empty(t, id)
			assert.Empty(t, s.Sessions())

			_, found, _ := backend.Get(LegacyCalculatorHistoryKey)
			assert.Equal(t, tt.wantKept, found)
		})
	}
}

func TestStore_MigrateLegacyHistoryTruncates(t *testing.T) {
	backend := kv.NewMemory(0)
	require.NoError(t, backend.Set(LegacyChatHistoryKey,
		`[{"text":"1","isUser":true},{"text":"2","isUser":false},{"text":"3","isUser":true}]`))

	s := newTestStore(t, backend, WithMaxMessages(2))
	_, migrated, err := s.MigrateLegacyHistory(LegacyChatHistoryKey)
	require.NoError(t, err)
	require.True(t, migrated)

	history := s.ReadHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "2", history[0].Text)
	assert.Equal(t, "3", history[1].Text)

	current, _ := s.CurrentSession()
	assert.Equal(t, "3", current.Title)
}

func strPtr(s string) *string {
	return &s
}
