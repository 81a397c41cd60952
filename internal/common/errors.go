// Package common defines shared constants and sentinel errors used across
// DataShare layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Session-level errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("operation not allowed for this role")

	// Caller-side input errors. *ValidationError matches it via errors.Is.
	ErrValidation = errors.New("validation error")

	// Persistence errors. Read errors are swallowed by the store adapter and
	// only logged; write errors reach the caller.
	ErrPersistenceRead  = errors.New("persisted data unreadable")
	ErrPersistenceWrite = errors.New("persisting data failed")
)

// ValidationError reports a rejected input field before any repository or
// gateway call is made.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
