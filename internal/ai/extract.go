package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/str8builders/invoice/internal/billing"
)

const extractSystemPrompt = `You turn a builder's job notes into invoice line items.
Return ONLY a JSON object of the form {"items": [...]}. Each item may have:
  "category": "service" for labour/time worked, "expense" for materials, supplies or other costs
  "description": short, invoice-ready wording (required)
  "date": when the work happened or the purchase was made, YYYY-MM-DD, only if the notes say
  "hours": number of hours worked (labour) or unit quantity (materials), only if stated
  "rate": hourly rate or unit cost in dollars, only if stated
  "amount": total dollars for the line, only if stated
Omit any field the notes do not support — never invent hours, rates or amounts.
Split distinct pieces of work or purchases into separate items.
No text outside the JSON object.`

// ExtractItems asks the model to break job notes into candidate line items.
// Records come back partial by design; the billing normalizer owns category
// inference and numeric reconciliation, so this method only guarantees the
// response shape.
func (s *Service) ExtractItems(ctx context.Context, notes string) ([]billing.RawRecord, error) {
	const op = "ExtractItems"

	if strings.TrimSpace(notes) == "" {
		return nil, nil
	}

	s.log.Info().
		Int("notes_length", len(notes)).
		Str("model", s.config.Model).
		Msg("Extracting line items from job notes")

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.config.Model,
			Temperature: s.config.Temperature,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: "Job notes:\n\n" + notes},
			},
			MaxTokens: 1000,
		})
		if err != nil {
			lastErr = err
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_retries", s.config.MaxRetries).
				Msg("Extraction request failed, retrying")
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no response choices")
			continue
		}

		content := resp.Choices[0].Message.Content
		records, salvaged, err := parseItemsResponse(content)
		if err != nil {
			lastErr = err
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Msg("Unusable extraction response, retrying")
			continue
		}
		if salvaged {
			s.log.Warn().
				Int("items", len(records)).
				Msg("Response failed strict validation, kept the well-formed items")
		}

		s.log.Info().
			Int("items", len(records)).
			Int("attempt", attempt).
			Msg("Extracted line items from notes")
		return records, nil
	}

	return nil, fmt.Errorf("%s: all %d attempts failed, last error: %w", op, s.config.MaxRetries, lastErr)
}
