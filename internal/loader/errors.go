package loader

import (
	"errors"
	"fmt"
)

// Common loader errors
var (
	// ErrSecurity is returned when a path resolves outside the approved
	// directory set. Raised before any analysis runs.
	ErrSecurity = errors.New("path is outside the approved directories")

	// ErrNotText is returned when the file content is not valid UTF-8.
	ErrNotText = errors.New("file is not valid UTF-8 text")

	// ErrEmptyFile is returned when the file contains no text.
	ErrEmptyFile = errors.New("file is empty")
)

// LoadError wraps errors with the operation that failed. The message never
// embeds the offending absolute path; callers log paths themselves where
// appropriate.
type LoadError struct {
	// Op is the operation that failed (e.g. "Load", "LoadHints").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("loader: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("loader: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *LoadError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
