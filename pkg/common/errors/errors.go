package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the lazyflow library

var (
	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrEmptyValue indicates that an absent optional value was unwrapped
	ErrEmptyValue = errors.New("no value present")

	// ErrPipelineReused indicates that a pipeline was walked or extended after
	// it had already been consumed
	ErrPipelineReused = errors.New("pipeline has already been operated upon or closed")

	// ErrDuplicateKey indicates a key collision in a mapping collection that
	// does not allow collisions
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnboundedEvaluation indicates that an infinite source was fully
	// evaluated without a bounding stage
	ErrUnboundedEvaluation = errors.New("unbounded evaluation of infinite source")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsUsageError returns true if the error was caused by the way a pipeline was
// built or consumed rather than by the data flowing through it.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrPipelineReused) ||
		errors.Is(err, ErrUnboundedEvaluation) ||
		errors.Is(err, ErrInvalidConfiguration)
}

// ValidationError describes an invalid configuration or argument value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError wraps a failure of a named operation within a module.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches additional context and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// DuplicateKeyError reports a key collision during mapping collection.
type DuplicateKeyError struct {
	Key      interface{}
	Existing interface{}
	Incoming interface{}
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %v (attempted merging values %v and %v)", e.Key, e.Existing, e.Incoming)
}

// Is reports whether target is ErrDuplicateKey.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
