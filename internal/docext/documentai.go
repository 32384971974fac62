package docext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/internal/retry"
)

// MaxDocumentSizeBytes is the maximum document size for synchronous
// processing (20MB).
const MaxDocumentSizeBytes = 20 * 1024 * 1024

// DocumentAIExtractor implements Service using Google Document AI's
// invoice parser.
type DocumentAIExtractor struct {
	client *documentai.DocumentProcessorClient
	config Config
	retry  retry.Policy
	log    zerolog.Logger
}

var _ Service = (*DocumentAIExtractor)(nil)

// NewDocumentAIExtractor creates an extractor for the configured processor.
// credentialsFile points at a service account JSON file; when empty,
// application default credentials are used.
func NewDocumentAIExtractor(ctx context.Context, config Config, credentialsFile string) (*DocumentAIExtractor, error) {
	const op = "NewDocumentAIExtractor"

	if config.ProjectID == "" {
		return nil, wrapExtractError(op, ErrInvalidConfiguration, "project ID is required")
	}
	if config.ProcessorID == "" {
		return nil, wrapExtractError(op, ErrInvalidConfiguration, "processor ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	var opts []option.ClientOption
	if config.Location != "us" {
		// Regional processors live behind regional endpoints.
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		if credentialsFile == "" {
			return nil, wrapExtractError(op, ErrMissingCredentials, err.Error())
		}
		return nil, wrapExtractError(op, err, fmt.Sprintf("failed to create Document AI client for location %s", config.Location))
	}

	return &DocumentAIExtractor{
		client: client,
		config: config,
		retry:  retry.DefaultPolicy(),
		log:    logger.WithComponent("docext"),
	}, nil
}

// NewDocumentAIExtractorWithClient creates an extractor with an explicit
// client (for testing).
func NewDocumentAIExtractorWithClient(config Config, client *documentai.DocumentProcessorClient) *DocumentAIExtractor {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	return &DocumentAIExtractor{
		client: client,
		config: config,
		retry:  retry.DefaultPolicy(),
		log:    logger.WithComponent("docext"),
	}
}

// ExtractRecords parses the document and returns one raw record per
// detected line item. Transient Document AI failures are retried with
// backoff; configuration and document problems are not.
func (d *DocumentAIExtractor) ExtractRecords(ctx context.Context, src io.Reader) ([]billing.RawRecord, error) {
	const op = "ExtractRecords"

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, wrapExtractError(op, err, "failed to read document")
	}
	if len(data) > MaxDocumentSizeBytes {
		return nil, wrapExtractError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(data)))
	}
	mimeType, err := sniffMimeType(data)
	if err != nil {
		return nil, wrapExtractError(op, err, "")
	}

	req := &documentaipb.ProcessRequest{
		Name: d.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
	}

	var doc *documentaipb.Document
	err = retry.Do(ctx, d.retry, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()

		resp, err := d.client.ProcessDocument(callCtx, req)
		if err != nil {
			classified, retryable := d.classifyError(op, err)
			if retryable {
				d.log.Warn().
					Err(err).
					Msg("Transient Document AI failure, will retry")
				return classified
			}
			return retry.Permanent(classified)
		}
		if resp.Document == nil {
			return retry.Permanent(wrapExtractError(op, ErrProcessingFailed, "no document in response"))
		}
		doc = resp.Document
		return nil
	})
	if err != nil {
		return nil, wrapExtractError(op, err, "")
	}

	records := d.recordsFromDocument(doc)
	if len(records) == 0 {
		return nil, wrapExtractError(op, ErrNoLineItems, "")
	}

	d.log.Info().
		Int("line_items", len(records)).
		Str("mime_type", mimeType).
		Msg("Extracted line items from document")

	return records, nil
}

// processorName constructs the full resource name for the processor.
func (d *DocumentAIExtractor) processorName() string {
	if d.config.ProcessorVersion != "" {
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
			d.config.ProjectID, d.config.Location, d.config.ProcessorID, d.config.ProcessorVersion)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		d.config.ProjectID, d.config.Location, d.config.ProcessorID)
}

// classifyError maps a Document AI error onto a package sentinel and
// reports whether another attempt could succeed.
func (d *DocumentAIExtractor) classifyError(op string, err error) (error, bool) {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return wrapExtractError(op, ErrInvalidCredentials, "insufficient permissions for Document AI"), false
	case strings.Contains(errStr, "NOT_FOUND"):
		return &ExtractError{Op: op, Err: ErrProcessorNotFound, ProcessorID: d.config.ProcessorID}, false
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return wrapExtractError(op, ErrInvalidDocument, "document format not supported or corrupted"), false
	case strings.Contains(errStr, "RESOURCE_EXHAUSTED"), strings.Contains(errStr, "QUOTA"):
		return wrapExtractError(op, ErrQuotaExceeded, ""), true
	case strings.Contains(errStr, "UNAVAILABLE"), strings.Contains(errStr, "Unavailable"),
		strings.Contains(errStr, "DeadlineExceeded"), strings.Contains(errStr, "context deadline exceeded"):
		return wrapExtractError(op, ErrProcessingFailed, fmt.Sprintf("transient Document AI error: %v", err)), true
	default:
		return wrapExtractError(op, ErrProcessingFailed, fmt.Sprintf("Document AI error: %v", err)), false
	}
}

// recordsFromDocument walks the parsed entities and converts each
// line_item into a raw record. The document-level invoice date fills in
// for line items without their own.
func (d *DocumentAIExtractor) recordsFromDocument(doc *documentaipb.Document) []billing.RawRecord {
	var invoiceDate string
	var records []billing.RawRecord

	for _, entity := range doc.GetEntities() {
		switch entity.GetType() {
		case "invoice_date", "receipt_date":
			if invoiceDate == "" {
				invoiceDate = dateString(entity)
			}
		case "line_item":
			record := recordFromLineItem(entity)
			if record == nil {
				continue
			}
			d.log.Debug().
				Str("description", record["description"]).
				Float32("confidence", entity.GetConfidence()).
				Msg("Parsed line item")
			records = append(records, record)
		}
	}

	if invoiceDate != "" {
		for _, record := range records {
			if _, ok := record["date"]; !ok {
				record["date"] = invoiceDate
			}
		}
	}

	return records
}

// recordFromLineItem converts one line_item entity into a raw record.
// Returns nil when not even a description can be recovered.
func recordFromLineItem(entity *documentaipb.Document_Entity) billing.RawRecord {
	record := billing.RawRecord{}
	for _, prop := range entity.GetProperties() {
		switch prop.GetType() {
		case "line_item/description":
			setField(record, "description", textValue(prop))
		case "line_item/amount":
			setField(record, "amount", moneyString(prop))
		case "line_item/quantity":
			setField(record, "quantity", numberString(prop))
		case "line_item/unit_price":
			setField(record, "rate", moneyString(prop))
		}
	}

	// No description property: fall back to the whole line's text.
	if record["description"] == "" {
		setField(record, "description", textValue(entity))
	}
	if record["description"] == "" {
		return nil
	}
	return record
}

// setField sets a record field once, skipping empty values.
func setField(record billing.RawRecord, key, value string) {
	if value != "" && record[key] == "" {
		record[key] = value
	}
}

// textValue returns the entity's mention text, trimmed.
func textValue(entity *documentaipb.Document_Entity) string {
	return strings.TrimSpace(entity.GetMentionText())
}

// moneyString renders a money entity as a plain decimal string, preferring
// the normalized value over the raw mention text.
func moneyString(entity *documentaipb.Document_Entity) string {
	if nv := entity.GetNormalizedValue(); nv != nil {
		if mv := nv.GetMoneyValue(); mv != nil {
			value := float64(mv.GetUnits()) + float64(mv.GetNanos())/1e9
			return strconv.FormatFloat(value, 'f', -1, 64)
		}
		if text := strings.TrimSpace(nv.GetText()); text != "" {
			return text
		}
	}
	return textValue(entity)
}

// numberString renders a quantity entity as a plain decimal string.
func numberString(entity *documentaipb.Document_Entity) string {
	if nv := entity.GetNormalizedValue(); nv != nil {
		if f := nv.GetFloatValue(); f != 0 {
			return strconv.FormatFloat(float64(f), 'f', -1, 32)
		}
		if text := strings.TrimSpace(nv.GetText()); text != "" {
			return text
		}
	}
	return textValue(entity)
}

// dateString renders a date entity as YYYY-MM-DD when a normalized value
// is present, otherwise the raw text for the normalizer to parse.
func dateString(entity *documentaipb.Document_Entity) string {
	if nv := entity.GetNormalizedValue(); nv != nil {
		if dv := nv.GetDateValue(); dv != nil && dv.GetYear() > 0 {
			return fmt.Sprintf("%04d-%02d-%02d", dv.GetYear(), dv.GetMonth(), dv.GetDay())
		}
		if text := strings.TrimSpace(nv.GetText()); text != "" {
			return text
		}
	}
	return textValue(entity)
}

// sniffMimeType identifies the document format from its magic bytes.
func sniffMimeType(data []byte) (string, error) {
	switch {
	case len(data) >= 4 && string(data[:4]) == "%PDF":
		return "application/pdf", nil
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg", nil
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png", nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Close closes the underlying Document AI client.
func (d *DocumentAIExtractor) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
