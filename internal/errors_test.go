package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("quota exceeded")
	err := &StorageError{
		Key: "chat_sessions",
		Op:  "set",
		Err: originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "chat_sessions") {
		t.Errorf("StorageError.Error() should contain key, got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "set") {
		t.Errorf("StorageError.Error() should contain op, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestCorruptDataError(t *testing.T) {
	originalErr := errors.New("unexpected end of JSON input")
	err := &CorruptDataError{
		Key: "chat_session_a",
		Err: originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "corrupt data") {
		t.Errorf("CorruptDataError.Error() should contain 'corrupt data', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "chat_session_a") {
		t.Errorf("CorruptDataError.Error() should contain key, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("CorruptDataError.Unwrap() should return original error")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "text", Reason: "is required"}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "validation error") {
		t.Errorf("ValidationError.Error() should contain 'validation error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "text") {
		t.Errorf("ValidationError.Error() should contain field, got: %q", errorMsg)
	}

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should match ErrValidation")
	}
	wrapped := fmt.Errorf("append: %w", err)
	if !errors.Is(wrapped, ErrValidation) {
		t.Error("wrapped ValidationError should match ErrValidation")
	}
	if errors.Is(err, ErrSessionNotFound) {
		t.Error("ValidationError should not match ErrSessionNotFound")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/file.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if errorMsg == "" {
		t.Error("ExportError.Error() returned empty string")
	}
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
