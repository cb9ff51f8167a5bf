// Package apperrors defines the sentinel errors shared across layers.
// Handlers map these onto HTTP statuses; everything else wraps them.
package apperrors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("not authorized")
	ErrValidation   = errors.New("validation failed")
)

// ValidationError carries field-level validation messages alongside the
// ErrValidation sentinel so callers can match with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError from field messages.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}
