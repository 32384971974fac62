package ocr

import (
	"context"
	"fmt"
	"io"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/str8builders/invoice/internal/logger"
)

const (
	// MaxFileSizeBytes is the Vision API size limit for synchronous processing (20MB).
	MaxFileSizeBytes = 20 * 1024 * 1024

	// MaxPagesSync is the Vision API page limit for synchronous PDF processing.
	MaxPagesSync = 5
)

// VisionService implements Service using the Google Cloud Vision API.
type VisionService struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

var _ Service = (*VisionService)(nil)

// NewVisionService creates a scanning service. credentialsFile points at a
// service account JSON file; when empty, application default credentials
// are used.
func NewVisionService(ctx context.Context, credentialsFile string) (*VisionService, error) {
	const op = "NewVisionService"

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if credentialsFile == "" {
			return nil, wrapScanError(op, ErrMissingCredentials, err.Error())
		}
		return nil, wrapScanError(op, err, "failed to create Vision client")
	}

	return &VisionService{
		client: client,
		log:    logger.WithComponent("ocr"),
	}, nil
}

// NewVisionServiceWithClient creates a scanning service with an explicit
// client (for testing).
func NewVisionServiceWithClient(client *vision.ImageAnnotatorClient) *VisionService {
	return &VisionService{
		client: client,
		log:    logger.WithComponent("ocr"),
	}
}

// ExtractText runs document text detection on a receipt or docket. PDFs go
// through file annotation, anything else is treated as a photo.
func (v *VisionService) ExtractText(ctx context.Context, src io.Reader) (*Result, error) {
	const op = "ExtractText"

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, wrapScanError(op, err, "failed to read document")
	}
	if len(data) == 0 {
		return nil, wrapScanError(op, ErrNoText, "empty document")
	}
	if len(data) > MaxFileSizeBytes {
		return nil, wrapScanError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(data)))
	}

	var result *Result
	if isPDF(data) {
		result, err = v.scanPDF(ctx, data)
	} else {
		result, err = v.scanImage(ctx, data)
	}
	if err != nil {
		return nil, err
	}

	v.log.Info().
		Int("pages", result.Pages).
		Int("text_length", len(result.Text)).
		Float32("confidence", result.Confidence).
		Msg("Extracted text from document")

	return result, nil
}

func isPDF(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "%PDF"
}

// scanPDF sends a PDF for synchronous file annotation.
func (v *VisionService) scanPDF(ctx context.Context, data []byte) (*Result, error) {
	const op = "scanPDF"

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  data,
					MimeType: "application/pdf",
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return nil, wrapScanError(op, ErrScanFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, wrapScanError(op, ErrScanFailed, "no response from Vision API")
	}
	fileResp := resp.Responses[0]
	if fileResp.Error != nil {
		return nil, wrapScanError(op, ErrScanFailed, fmt.Sprintf("Vision API error: %s", fileResp.Error.Message))
	}

	result, err := resultFromPages(fileResp.Responses)
	if err != nil {
		return nil, wrapScanError(op, err, "")
	}
	return result, nil
}

// scanImage sends a photo for image annotation.
func (v *VisionService) scanImage(ctx context.Context, data []byte) (*Result, error) {
	const op = "scanImage"

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, wrapScanError(op, ErrScanFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, wrapScanError(op, ErrScanFailed, "no response from Vision API")
	}

	result, err := resultFromPages(resp.Responses)
	if err != nil {
		return nil, wrapScanError(op, err, "")
	}
	return result, nil
}

// resultFromPages aggregates per-page annotations into one Result. Pages
// arrive in reading order and the text keeps that order, with a blank line
// between PDF pages.
func resultFromPages(pages []*visionpb.AnnotateImageResponse) (*Result, error) {
	if len(pages) == 0 {
		return nil, ErrNoText
	}
	if len(pages) > MaxPagesSync {
		return nil, fmt.Errorf("%w: document has %d pages", ErrTooManyPages, len(pages))
	}

	var text strings.Builder
	var confidenceSum float32
	var confidenceCount int

	for i, page := range pages {
		if page.Error != nil {
			return nil, fmt.Errorf("%w: page %d: %s", ErrScanFailed, i+1, page.Error.Message)
		}
		if page.FullTextAnnotation == nil {
			continue
		}

		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(page.FullTextAnnotation.Text)

		for _, annotation := range page.TextAnnotations {
			if annotation.Confidence > 0 {
				confidenceSum += annotation.Confidence
				confidenceCount++
			}
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return nil, ErrNoText
	}

	var confidence float32
	if confidenceCount > 0 {
		confidence = confidenceSum / float32(confidenceCount)
	}

	return &Result{
		Text:       text.String(),
		Pages:      len(pages),
		Confidence: confidence,
	}, nil
}

// Close closes the underlying Vision client.
func (v *VisionService) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
