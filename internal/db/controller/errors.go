// Package controller provides the shared error taxonomy and response shapes
// for the entity controllers.
package controller

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entity id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// ValidationError reports client-supplied data failing a business rule.
// It carries a human-readable message that is safe to return to the caller.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
