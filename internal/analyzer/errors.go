package analyzer

import (
	"errors"
	"fmt"
)

// Common analysis errors
var (
	// ErrInputTooShort is returned when the input falls below the configured
	// minimum length. Fatal; no record is emitted.
	ErrInputTooShort = errors.New("input text is too short to analyse")

	// ErrAnalysisFailed is returned when the pipeline cannot produce a record
	// for a reason other than input length.
	ErrAnalysisFailed = errors.New("exam analysis failed")
)

// AnalysisError wraps errors with additional context about the analysis
// failure. Messages carry no paths or internal state dumps; they are safe to
// surface to callers as-is.
type AnalysisError struct {
	// Op is the operation that failed (e.g. "Analyze", "SplitSections").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("analyzer: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("analyzer: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *AnalysisError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewAnalysisError creates a new AnalysisError with the specified operation
// and underlying error.
func NewAnalysisError(op string, err error, details string) *AnalysisError {
	return &AnalysisError{Op: op, Err: err, Details: details}
}
