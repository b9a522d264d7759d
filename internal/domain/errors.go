package domain

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a malformed or out-of-range request field.
// Always recoverable by the caller; the message names the violated
// constraint.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// NewInvalidInput creates an InvalidInputError for the given field.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return errors.As(err, &iie)
}

// ComputationError reports an unexpected internal failure during simulation
// or scenario evaluation. It is never retried automatically: the computation
// is deterministic given its seed, so a blind retry would reproduce the same
// failure. Callers see a generic message; the wrapped cause is logged
// server-side.
type ComputationError struct {
	Stage string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation failed during %s: %v", e.Stage, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// NewComputationError wraps err with the stage it occurred in.
func NewComputationError(stage string, err error) error {
	return &ComputationError{Stage: stage, Err: err}
}
