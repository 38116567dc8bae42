package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an entity is missing or not owned by the
// caller. The two cases are indistinguishable.
var ErrNotFound = errors.New("not found")

// ValidationError describes a user-correctable input problem.
type ValidationError struct {
	Field       string
	Description string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Description
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// Invalid returns a *ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Description: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps a failure of the store's atomic unit.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
