package bughunt

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage is returned for a wrong argument count or an argument that is
	// not a number.
	ErrUsage = errors.New("usage")

	// ErrRange is returned when n is below MinElements.
	ErrRange = errors.New("out of range")
)

// ValidationError describes an invalid input value.
//
// Example:
//
//	err := &ValidationError{Field: "n", Value: 5, Err: ErrRange}
//	errors.Is(err, ErrRange) // true
type ValidationError struct {
	Field string
	Value any
	Err   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
