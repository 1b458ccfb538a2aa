package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the Intervals library

var (
	// ErrNoSamples indicates that an aggregate query was issued against a
	// statistics collector that holds no samples
	ErrNoSamples = errors.New("no samples recorded")

	// ErrRunActive indicates that a run was started on a timer that
	// already has an active run
	ErrRunActive = errors.New("run already active")

	// ErrNotRunning indicates that Stop was called on a timer with no
	// active run
	ErrNotRunning = errors.New("no active run")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsMisuse returns true if the error indicates a programming-contract
// violation (lifecycle misuse) rather than a runtime condition.
func IsMisuse(err error) bool {
	return errors.Is(err, ErrRunActive) || errors.Is(err, ErrNotRunning)
}

// ValidationError describes a configuration parameter that failed
// validation. It identifies the module and field so callers can surface
// actionable messages without string matching.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap lets errors.Is(err, ErrInvalidConfiguration) match any
// validation error.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}
