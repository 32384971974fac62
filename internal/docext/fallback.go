package docext

import (
	"bytes"
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/internal/ocr"
)

// TextExtractor turns plain scanned text into candidate line-item records.
// The AI service's item extractor satisfies this.
type TextExtractor interface {
	ExtractItems(ctx context.Context, notes string) ([]billing.RawRecord, error)
}

// FallbackExtractor tries structured Document AI parsing first and falls
// back to plain OCR plus the text extractor when structured parsing is
// unavailable, fails, or finds nothing.
type FallbackExtractor struct {
	structured Service
	scanner    ocr.Service
	items      TextExtractor
	log        zerolog.Logger
}

var _ Service = (*FallbackExtractor)(nil)

// NewFallbackExtractor combines the extraction paths. structured may be
// nil when Document AI is not configured; scanner and items may be nil
// when OCR is not configured. At least one path must be present.
func NewFallbackExtractor(structured Service, scanner ocr.Service, items TextExtractor) *FallbackExtractor {
	return &FallbackExtractor{
		structured: structured,
		scanner:    scanner,
		items:      items,
		log:        logger.WithComponent("docext"),
	}
}

// ExtractRecords runs the document through whichever extraction paths are
// configured, in order of fidelity.
func (f *FallbackExtractor) ExtractRecords(ctx context.Context, src io.Reader) ([]billing.RawRecord, error) {
	const op = "ExtractRecords"

	// Buffer the document so both paths can read it.
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, wrapExtractError(op, err, "failed to read document")
	}

	var structuredErr error
	if f.structured != nil {
		records, err := f.structured.ExtractRecords(ctx, bytes.NewReader(data))
		if err == nil {
			return records, nil
		}
		structuredErr = err
		if f.scanner == nil || f.items == nil {
			return nil, structuredErr
		}
		f.log.Warn().
			Err(err).
			Msg("Structured extraction failed, falling back to OCR")
	}

	if f.scanner == nil || f.items == nil {
		return nil, wrapExtractError(op, ErrInvalidConfiguration, "no extraction path configured")
	}

	result, err := f.scanner.ExtractText(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, wrapExtractError(op, err, "OCR fallback failed")
	}

	records, err := f.items.ExtractItems(ctx, result.Text)
	if err != nil {
		return nil, wrapExtractError(op, err, "item extraction from scanned text failed")
	}
	if len(records) == 0 {
		return nil, wrapExtractError(op, ErrNoLineItems, "")
	}

	if structuredErr != nil {
		f.log.Info().
			Int("line_items", len(records)).
			Msg("OCR fallback recovered line items")
	}

	return records, nil
}
