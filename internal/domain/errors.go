// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the requested aggregate does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an actor already holds an entry in an
	// embedded collection (duplicate registration or review).
	ErrConflict = errors.New("duplicate entry")

	// ErrCapacityExceeded is returned when an event has no spots left.
	ErrCapacityExceeded = errors.New("event is full")

	// ErrForbidden is returned when the actor lacks the required role or
	// ownership for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned on a failed login. It deliberately
	// does not distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries every field constraint violated by a write.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from one or more violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// StorageError wraps an unexpected store-level failure. It is surfaced to
// callers as a 500-equivalent and never retried here.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
