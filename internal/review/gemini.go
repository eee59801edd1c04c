package review

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// generationErrorPrefix marks a reply that is really a failed call. The
// string flows through the normal reply path: the section extractor finds
// no headings in it and the run degrades to empty notes instead of failing.
const generationErrorPrefix = "[generation error] "

// Generator produces a reply for a prompt. It never fails: errors are
// folded into the reply text so the caller always has something to render.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// NewGeminiClient creates a new Gemini client. Construction fails on a
// missing credential; request failures are handled by Generate.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the prompt and returns the reply text. A single blocking
// round trip, no retries.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) string {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		slog.Error("generation request failed", "model", g.model, "error", err)
		return generationErrorPrefix + err.Error()
	}

	text := resp.Text()
	if text == "" {
		slog.Warn("generation returned no text", "model", g.model)
		return generationErrorPrefix + "empty response from model"
	}
	return text
}
