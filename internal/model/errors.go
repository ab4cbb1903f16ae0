package model

import "fmt"

// ValidationError reports a missing or malformed field caught before any request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a local booking whose time is already taken.
type ConflictError struct {
	Time   string
	Holder string
	Date   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: time %s already taken by %s on %s", e.Time, e.Holder, e.Date)
}
