package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const polishSystemPrompt = `You tidy line-item descriptions for a New Zealand building company's invoices.
Rewrite the given text as one short, professional invoice line: fix spelling,
expand obvious shorthand, keep trade terminology, and never add information
that is not in the original. Return only the rewritten line, with no quotes
and no commentary.`

// Polish rewrites one description into invoice-ready wording. The original
// text is never modified in place; callers decide whether to adopt the
// result, and fall back to the original on error.
func (s *Service) Polish(ctx context.Context, text string) (string, error) {
	const op = "Polish"

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text, nil
	}

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.config.Model,
			Temperature: s.config.Temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: polishSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: trimmed},
			},
			MaxTokens: 200,
		})
		if err != nil {
			lastErr = err
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_retries", s.config.MaxRetries).
				Msg("Polish request failed, retrying")
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no response choices")
			continue
		}

		polished := cleanPolished(resp.Choices[0].Message.Content)
		if polished == "" {
			lastErr = fmt.Errorf("empty rewrite")
			continue
		}

		s.log.Debug().
			Str("original", trimmed).
			Str("polished", polished).
			Msg("Description polished")
		return polished, nil
	}

	return "", fmt.Errorf("%s: all %d attempts failed, last error: %w", op, s.config.MaxRetries, lastErr)
}

// cleanPolished flattens the rewrite to a single line and strips wrapping
// quotes models like to add.
func cleanPolished(content string) string {
	line := strings.Join(strings.Fields(content), " ")
	line = strings.Trim(line, `"'`)
	return strings.TrimSpace(line)
}
