package ocr

import (
	"errors"
	"fmt"
)

// Common scanning errors
var (
	// ErrDocumentTooLarge is returned when the document exceeds the 20MB
	// limit for synchronous Vision API processing.
	ErrDocumentTooLarge = errors.New("document exceeds the maximum size limit (20MB)")

	// ErrTooManyPages is returned when a PDF has more than 5 pages, the
	// limit for synchronous Vision API processing.
	ErrTooManyPages = errors.New("document has too many pages (maximum 5 for synchronous processing)")

	// ErrScanFailed is returned when the Vision API fails to process the document.
	ErrScanFailed = errors.New("document scan failed")

	// ErrMissingCredentials is returned when no Google Cloud credentials are available.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_SERVICE_ACCOUNT_KEY or configure application default credentials")

	// ErrNoText is returned when the document contains no readable text.
	ErrNoText = errors.New("document contains no readable text")
)

// ScanError wraps errors with context about which scanning step failed.
type ScanError struct {
	// Op is the operation that failed (e.g., "ExtractText").
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

// Is implements error matching for errors.Is.
func (e *ScanError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapScanError wraps an error as a ScanError unless it already is one.
func wrapScanError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return err
	}

	return &ScanError{Op: op, Err: err, Details: details}
}
