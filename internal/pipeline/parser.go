package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/lbarbosa/fatura-tracker/internal/logger"
)

// GeminiParser implements StatementParser against the Gemini API. One client
// is created at startup and reused for every statement in the run.
type GeminiParser struct {
	client *genai.Client
	model  string
}

// NewGeminiParser creates a GeminiParser using the given API key.
func NewGeminiParser(ctx context.Context, apiKey string) (*GeminiParser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiParser: create genai client: %w", err)
	}
	return &GeminiParser{
		client: client,
		model:  DefaultModelName,
	}, nil
}

// ParseStatement sends the statement text to the model and returns the
// decoded records. A transport or model error is returned to the caller; a
// response that is not valid JSON is logged with the raw text and yields an
// empty record set, so the document is skipped rather than the run aborted.
func (p *GeminiParser) ParseStatement(ctx context.Context, rawText, fileName string) ([]any, error) {
	log := logger.FromContext(ctx)
	log.Info().Str("file", fileName).Msg("asking model to analyze statement")

	prompt, truncated := BuildExtractionPrompt(rawText)
	if truncated {
		log.Warn().
			Str("file", fileName).
			Int("limit_chars", MaxPromptTextChars).
			Int("text_chars", len(rawText)).
			Msg("statement text truncated for the model; trailing transactions may be lost")
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("ParseStatement: generate content: %w", err)
	}

	records, err := decodeModelJSON(resp.Text())
	if err != nil {
		log.Error().
			Err(err).
			Str("file", fileName).
			Str("raw_response", resp.Text()).
			Msg("failed to parse JSON from model response; skipping document")
		return nil, nil
	}

	return records, nil
}

// decodeModelJSON strips any Markdown wrapper the model may have emitted and
// parses the remainder as a JSON array.
func decodeModelJSON(raw string) ([]any, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("decodeModelJSON: empty response")
	}

	var records []any
	if err := json.Unmarshal([]byte(clean), &records); err != nil {
		return nil, fmt.Errorf("decodeModelJSON: unmarshal: %w", err)
	}
	return records, nil
}

// cleanModelJSON removes ```json / ``` fences and clamps the string to the
// outermost JSON array, in case the model ignored the no-Markdown rule.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the fence line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the first '[' through the last ']' if there is still prose
	// around the array.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
