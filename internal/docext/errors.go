package docext

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrInvalidDocument is returned when the document is corrupted or
	// cannot be processed by Document AI.
	ErrInvalidDocument = errors.New("invalid or corrupted document")

	// ErrUnsupportedFormat is returned when the document is not a PDF,
	// JPEG or PNG.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrDocumentTooLarge is returned when the document exceeds the 20MB
	// limit for synchronous processing.
	ErrDocumentTooLarge = errors.New("document exceeds the maximum size limit (20MB)")

	// ErrProcessingFailed is returned when Document AI processing fails.
	ErrProcessingFailed = errors.New("document AI processing failed")

	// ErrMissingCredentials is returned when no Google Cloud credentials
	// are available.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials")

	// ErrInvalidConfiguration is returned when required Document AI
	// settings are missing.
	ErrInvalidConfiguration = errors.New("invalid Document AI configuration")

	// ErrProcessorNotFound is returned when the configured processor does
	// not exist or cannot be accessed.
	ErrProcessorNotFound = errors.New("document AI processor not found")

	// ErrQuotaExceeded is returned when Document AI quota limits are hit.
	ErrQuotaExceeded = errors.New("document AI quota exceeded")

	// ErrInvalidCredentials is returned when credentials lack the
	// permissions Document AI needs.
	ErrInvalidCredentials = errors.New("invalid Google Cloud credentials")

	// ErrNoLineItems is returned when the parser finds no line items in
	// the document.
	ErrNoLineItems = errors.New("no line items found in document")
)

// ExtractError wraps errors with context about the extraction failure.
type ExtractError struct {
	// Op is the operation that failed (e.g., "ExtractRecords").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string

	// ProcessorID is the Document AI processor involved, when known.
	ProcessorID string
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("docext: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	if e.ProcessorID != "" {
		return fmt.Sprintf("docext: %s failed (processor: %s): %v", e.Op, e.ProcessorID, e.Err)
	}
	return fmt.Sprintf("docext: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *ExtractError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapExtractError wraps an error as an ExtractError unless it already is one.
func wrapExtractError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var extractErr *ExtractError
	if errors.As(err, &extractErr) {
		return err
	}

	return &ExtractError{Op: op, Err: err, Details: details}
}
