// Package docext pulls line items out of supplier invoices and till
// receipts using Google Document AI's invoice parser.
//
// The parser returns structured line_item entities (description, quantity,
// unit price, amount); these become raw records for the billing normalizer,
// which owns category inference and numeric reconciliation. When Document AI
// is not configured, a fallback pipeline runs plain OCR and hands the text
// to the item extractor instead.
//
// Required Environment Variables:
//   - GOOGLE_CLOUD_PROJECT: Google Cloud project ID
//   - GOOGLE_CLOUD_LOCATION: processing location (e.g. "us", "eu")
//   - DOCUMENT_AI_PROCESSOR_ID: invoice parser processor ID
//   - GOOGLE_SERVICE_ACCOUNT_KEY: path to a service account JSON file, or
//     empty to use application default credentials
//
// Document AI API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Supported formats: PDF, JPEG, PNG
//   - Processing time: typically 5-15 seconds per document
//   - Quota limits apply (check Google Cloud Console)
package docext

import (
	"context"
	"io"
	"time"

	"github.com/str8builders/invoice/internal/billing"
)

// Service extracts candidate line-item records from a scanned document.
type Service interface {
	// ExtractRecords parses the document and returns one raw record per
	// detected line item, ready for billing.NormalizeRecords.
	ExtractRecords(ctx context.Context, src io.Reader) ([]billing.RawRecord, error)
}

// Config holds Document AI processing settings.
type Config struct {
	// ProjectID is the Google Cloud project where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g. "us", "eu"). Should match
	// where the processor was created.
	Location string

	// ProcessorID is the invoice parser processor ID.
	ProcessorID string

	// ProcessorVersion pins a particular processor version. Empty uses the
	// processor's default version.
	ProcessorVersion string

	// Timeout is the maximum time to wait for one processing call.
	// Default: 60 seconds.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Location: "us",
		Timeout:  60 * time.Second,
	}
}
