// Package ocr reads text out of supplier receipts and site dockets using
// the Google Cloud Vision API.
//
// Scanned receipts arrive as phone photos (JPEG/PNG) or as PDFs emailed by
// suppliers; both go through document text detection and come back as plain
// text for the item extractor to work on.
//
// Required Environment Variables:
//   - GOOGLE_SERVICE_ACCOUNT_KEY: path to a service account JSON file, or
//     empty to use application default credentials
//
// Cloud Vision API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Maximum pages: 5 pages for synchronous PDF processing
//   - Supported formats: JPEG, PNG, PDF, TIFF
package ocr

import (
	"context"
	"io"
)

// Service extracts text from a scanned receipt or docket.
type Service interface {
	// ExtractText runs document text detection on the document and returns
	// the text from all pages in reading order.
	ExtractText(ctx context.Context, src io.Reader) (*Result, error)
}

// Result holds the text pulled from one scanned document.
type Result struct {
	// Text is the extracted text from all pages, concatenated in reading order.
	Text string `json:"text"`

	// Pages is the number of pages processed. Always 1 for photos.
	Pages int `json:"pages"`

	// Confidence is the average detection confidence (0.0 to 1.0).
	Confidence float32 `json:"confidence"`
}
