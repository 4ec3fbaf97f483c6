package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/harlowe/syllabi-api/internal/config"
	"github.com/harlowe/syllabi-api/internal/extraction"
)

// Generator implements the extraction.Generator interface using Google's
// Gemini API as the structured-generation service.
type Generator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string

	// temperature is the sampling temperature; kept low so repeated runs
	// on the same text stay stable
	temperature float32
}

// Ensure Generator implements the extraction boundary interface
var _ extraction.Generator = (*Generator)(nil)

// NewGenerator creates a new Gemini-backed Generator with the provided
// dependencies.
//
// Returns ErrInvalidConfig if the API key or model name is missing, or if
// the Gemini client cannot be created.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", extraction.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", extraction.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			extraction.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:      logger.With("component", "gemini_generator"),
		client:      client,
		model:       cfg.ModelName,
		temperature: cfg.Temperature,
	}, nil
}

// Generate sends the instructions to the Gemini API and returns the raw JSON
// output. It makes exactly one attempt; retrying on transient failures is
// the caller's decision.
func (g *Generator) Generate(ctx context.Context, instructions string) (json.RawMessage, error) {
	if instructions == "" {
		return nil, fmt.Errorf("%w: instructions cannot be empty", extraction.ErrInvalidConfig)
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		ResponseMIMEType: "application/json",
	}

	g.logger.DebugContext(ctx, "calling Gemini API",
		"model", g.model,
		"instructions_length", len(instructions))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(instructions), genConfig)
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", extraction.ErrServiceUnavailable, err)
	}

	text, err := responseText(resp)
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API response unusable", "error", err)
		return nil, err
	}

	g.logger.DebugContext(ctx, "Gemini API call successful", "response_length", len(text))
	return json.RawMessage(text), nil
}

// responseText pulls the generated text out of an API response, mapping
// safety blocks and empty responses onto the extraction error taxonomy.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", extraction.ErrMalformedResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", extraction.ErrContentBlocked
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in response", extraction.ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: no text generated", extraction.ErrMalformedResponse)
	}

	return text, nil
}
