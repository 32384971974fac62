// Package ai provides the OpenAI-backed assistants: tidying line-item
// descriptions into invoice-ready wording, and pulling structured line items
// out of free-form job notes.
//
// Extraction output is JSON-schema validated before anything reaches the
// billing normalizer; responses that fail strict validation are salvaged
// item-by-item rather than discarded outright. Both assistants retry
// transient API failures a bounded number of times.
//
// Required Environment Variables:
//   - OPENAI_API_KEY: OpenAI API key
//   - OPENAI_MODEL: model name (optional, defaults to gpt-4o-mini)
package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/str8builders/invoice/internal/billing"
	"github.com/str8builders/invoice/internal/logger"
)

// Polisher rewrites one line description into invoice-ready wording.
// Best-effort: on failure the caller keeps the original text.
type Polisher interface {
	Polish(ctx context.Context, text string) (string, error)
}

// Extractor turns free-form job notes into raw candidate records for the
// billing normalizer. Any subset of fields may be absent per record.
type Extractor interface {
	ExtractItems(ctx context.Context, notes string) ([]billing.RawRecord, error)
}

// Config configures the assistants.
type Config struct {
	Model       string  // chat model name
	Temperature float32 // low values keep rewrites predictable
	MaxRetries  int     // attempts per call
}

// Service implements Polisher and Extractor over one OpenAI client.
type Service struct {
	client *openai.Client
	config Config
	log    zerolog.Logger
}

var (
	_ Polisher  = (*Service)(nil)
	_ Extractor = (*Service)(nil)
)

// NewService creates the assistants from an API key and model name.
func NewService(apiKey, model string) (*Service, error) {
	const op = "NewService"

	if apiKey == "" {
		return nil, fmt.Errorf("%s: OPENAI_API_KEY is required", op)
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	return NewServiceWithClient(openai.NewClient(apiKey), Config{
		Model:       model,
		Temperature: 0.2,
		MaxRetries:  3,
	}), nil
}

// NewServiceWithClient creates the assistants with an explicit client and
// configuration, for tests and callers that manage their own client.
func NewServiceWithClient(client *openai.Client, config Config) *Service {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	return &Service{
		client: client,
		config: config,
		log:    logger.WithComponent("ai"),
	}
}
