package ocr

import (
	"errors"
	"fmt"
)

// Common OCR errors
var (
	// ErrPDFTooLarge is returned when the PDF exceeds the 20MB synchronous
	// processing limit of the Vision API.
	ErrPDFTooLarge = errors.New("PDF file size exceeds the maximum limit (20MB)")

	// ErrInvalidPDF is returned when the provided data is not a valid PDF.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrScanFailed is returned when the Vision API fails to process the scan.
	ErrScanFailed = errors.New("OCR processing failed")

	// ErrMissingCredentials is returned when no Google Cloud credentials are
	// configured in the environment.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrTooManyPages is returned when the PDF exceeds the 5-page synchronous
	// processing limit.
	ErrTooManyPages = errors.New("PDF has too many pages (maximum 5 pages for synchronous processing)")

	// ErrEmptyScan is returned when the scan yields no readable text.
	ErrEmptyScan = errors.New("document contains no readable text")
)

// ScanError wraps errors with additional context about the OCR failure.
type ScanError struct {
	// Op is the operation that failed (e.g. "ScanPDF").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ScanError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapScanError wraps an error as a ScanError if it isn't already one.
func WrapScanError(op string, err error, details string) error {
	if err == nil {
		return nil
	}
	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return err
	}
	return &ScanError{Op: op, Err: err, Details: details}
}
