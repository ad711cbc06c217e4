package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when an operation names a session id
	// that is not in the index
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoCurrentSession is returned by operations that need a current session
	// and do not create one
	ErrNoCurrentSession = errors.New("no current session")

	// ErrValidation matches every *ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")

	// ErrListingUnsupported is returned by diagnostics when the key/value
	// store cannot enumerate its keys
	ErrListingUnsupported = errors.New("storage backend does not support listing keys")
)

// StorageError represents errors reading or writing the key/value store
type StorageError struct {
	Key string
	Op  string // "get", "set", "remove", "list"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// CorruptDataError represents a stored value that failed to parse
type CorruptDataError struct {
	Key string
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data at %s: %v", e.Key, e.Err)
}

func (e *CorruptDataError) Unwrap() error {
	return e.Err
}

// ValidationError represents a malformed message or an invalid argument
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
