package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrNotFound is returned by lookups on an unknown id
	ErrNotFound = stderrors.New("record not found")
	// ErrStoreNotLoaded is returned when the entity store is used before Load
	ErrStoreNotLoaded = stderrors.New("store not loaded")
	// ErrGuardRejected marks an expected, benign refusal such as a duplicate same-day review
	ErrGuardRejected = stderrors.New("rejected by scheduling guard")
	// ErrOffline is returned when a remote operation is attempted without connectivity
	ErrOffline = stderrors.New("offline")
)

// ValidationError reports malformed mutation input. It is returned before any state changes.
type ValidationError struct {
	Kind   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s %s", e.Kind, e.Field, e.Reason)
}

// Invalid builds a ValidationError.
func Invalid(kind, field, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Reason: reason}
}

// PersistenceError reports a failed durable write. The in-memory document is kept.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// SyncError reports a failed remote round-trip for a queue entry.
type SyncError struct {
	EntryID string
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync entry %s: %v", e.EntryID, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// New returns an error that formats as the given text.
func New(text string) error { return stderrors.New(text) }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return stderrors.As(err, &v)
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var p *PersistenceError
	return stderrors.As(err, &p)
}
