package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for caller input that cannot be used:
	// negative prices, non-numeric percentages, unknown treat members and so on.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptState is returned when persisted data does not decode into
	// valid domain values.
	ErrCorruptState = errors.New("corrupt state")

	// ErrNotFound is returned when a group does not exist.
	ErrNotFound = errors.New("not found")
)

// FieldError describes an invalid field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func fieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// InvalidInput wraps a message in ErrInvalidInput.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
