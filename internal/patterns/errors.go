package patterns

import (
	"errors"
	"fmt"
)

// Common pattern registry errors
var (
	// ErrPatternNotFound is returned when a non-critical pattern name is not
	// present in the catalogue. Critical names never produce this error; the
	// registry substitutes their fallback instead.
	ErrPatternNotFound = errors.New("pattern not found in registry")

	// ErrUnsafeExpression is recorded when an expression fails the structural
	// linear-time check and is replaced by its fallback.
	ErrUnsafeExpression = errors.New("expression failed structural safety check")
)

// PatternError wraps errors with the pattern name that caused them.
type PatternError struct {
	// Name is the dotted pattern name that was requested or compiled.
	Name string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("patterns: %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *PatternError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
