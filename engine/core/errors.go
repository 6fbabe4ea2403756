package core

import (
	"errors"
	"fmt"
)

var (
	// ErrDefinition marks failures raised while a connections or task config class is declared.
	ErrDefinition = errors.New("definition error")
	// ErrValidation marks failures raised when an object is used with a mismatching configuration.
	ErrValidation = errors.New("validation error")
	// ErrScalar marks a scalar connection that did not resolve to exactly one dataset.
	ErrScalar = errors.New("scalar connection error")
	// ErrOverrideParse marks a textual override value that is not a literal.
	ErrOverrideParse = errors.New("override parse error")
)

// -----------------------------------------------------------------------------
// DefinitionError
// -----------------------------------------------------------------------------

// DefinitionError is raised at class-declaration time. It is never recoverable at run time.
type DefinitionError struct {
	Subject string
	Reason  string
	Err     error
}

func (e *DefinitionError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("definition error: %s", e.Reason)
	}
	return fmt.Sprintf("definition error in %s: %s", e.Subject, e.Reason)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

func (e *DefinitionError) Is(target error) bool {
	return target == ErrDefinition
}

func NewDefinitionError(subject, reason string) *DefinitionError {
	return &DefinitionError{Subject: subject, Reason: reason}
}

func NewDefinitionErrorf(subject, format string, args ...any) *DefinitionError {
	return &DefinitionError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError is raised when an object is constructed or mutated with a configuration
// that does not match what it was declared against.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("validation error: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(reason string, err error) *ValidationError {
	return &ValidationError{Reason: reason, Err: err}
}

func NewValidationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// -----------------------------------------------------------------------------
// ScalarError
// -----------------------------------------------------------------------------

// ScalarError reports a connection declared as scalar that received Count data IDs
// in a quantum instead of exactly one.
type ScalarError struct {
	Key   string
	Count int
}

func (e *ScalarError) Error() string {
	return fmt.Sprintf("expected scalar for dataset field %s, received %d data IDs", e.Key, e.Count)
}

func (e *ScalarError) Is(target error) bool {
	return target == ErrScalar
}

func NewScalarError(key string, count int) *ScalarError {
	return &ScalarError{Key: key, Count: count}
}

// -----------------------------------------------------------------------------
// OverrideParseError
// -----------------------------------------------------------------------------

// OverrideParseError wraps the failure to read Text as a literal value.
type OverrideParseError struct {
	Text string
	Err  error
}

func (e *OverrideParseError) Error() string {
	return fmt.Sprintf("unable to parse %q into a literal value: %v", e.Text, e.Err)
}

func (e *OverrideParseError) Unwrap() error {
	return e.Err
}

func (e *OverrideParseError) Is(target error) bool {
	return target == ErrOverrideParse
}

func NewOverrideParseError(text string, err error) *OverrideParseError {
	return &OverrideParseError{Text: text, Err: err}
}
