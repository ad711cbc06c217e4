package internal

import (
	"errors"
	"testing"
)

func TestValidateRawMessage(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantErr   bool
		wantField string
	}{
		{
			name: "user message",
			raw:  `{"text":"hello","isUser":true}`,
		},
		{
			name: "numeric timestamp",
			raw:  `{"text":"hi","isUser":false,"timestamp":1700000000000}`,
		},
		{
			name: "string timestamp",
			raw:  `{"text":"hi","isUser":false,"timestamp":"10:31:07 AM"}`,
		},
		{
			name: "null timestamp",
			raw:  `{"text":"hi","isUser":false,"timestamp":null}`,
		},
		{
			name: "extra fields",
			raw:  `{"text":"hi","isUser":true,"id":7}`,
		},
		{
			name:      "missing text",
			raw:       `{"isUser":true}`,
			wantErr:   true,
			wantField: "text",
		},
		{
			name:      "missing isUser",
			raw:       `{"text":"hello"}`,
			wantErr:   true,
			wantField: "isUser",
		},
		{
			name:      "wrong isUser type",
			raw:       `{"text":"hello","isUser":"yes"}`,
			wantErr:   true,
			wantField: "isUser",
		},
		{
			name:      "wrong timestamp type",
			raw:       `{"text":"hello","isUser":true,"timestamp":{}}`,
			wantErr:   true,
			wantField: "timestamp",
		},
		{
			name:    "not an object",
			raw:     `["hello"]`,
			wantErr: true,
		},
		{
			name:      "not JSON",
			raw:       `{"text":`,
			wantErr:   true,
			wantField: "message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRawMessage([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRawMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("error = %T, want *ValidationError", err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("errors.Is(err, ErrValidation) should be true")
			}
			if tt.wantField != "" && validationErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", validationErr.Field, tt.wantField)
			}
		})
	}
}
