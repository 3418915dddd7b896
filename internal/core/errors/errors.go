// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import (
	"errors"
	"fmt"
)

// Record validation errors.
var (
	// ErrMissingRecordID indicates a record without an external key.
	ErrMissingRecordID = errors.New("record has no id")

	// ErrRecordNotFound indicates a record could not be found in the store.
	ErrRecordNotFound = errors.New("record not found")
)

// Store errors.
var (
	// ErrStoreUnavailable indicates a transient store failure worth one retry.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrEmptyPatch indicates an update was attempted with no changes.
	ErrEmptyPatch = errors.New("empty patch")
)

// LLM reply errors.
var (
	// ErrEmptyResponse indicates an empty completion was received.
	ErrEmptyResponse = errors.New("empty response")

	// ErrReplyCountMismatch indicates a batch reply item count differs from the batch size.
	ErrReplyCountMismatch = errors.New("reply item count mismatch")

	// ErrUnparsableReply indicates a batch reply does not follow the positional format.
	ErrUnparsableReply = errors.New("unparsable batch reply")

	// ErrCircuitOpen indicates the LLM circuit breaker has tripped.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// NewRecordNotFoundError wraps ErrRecordNotFound with the missing record id.
func NewRecordNotFoundError(id string) error {
	return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

// NewStoreUnavailableError wraps a store failure so callers can match it
// against ErrStoreUnavailable.
func NewStoreUnavailableError(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
