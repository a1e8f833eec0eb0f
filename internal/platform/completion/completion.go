// Package completion talks to the external text-completion service. Callers
// depend on Generator; New picks the Gemini client or the Unconfigured
// variant depending on whether an API key is present.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

var (
	// ErrUnconfigured is returned by every call on an Unconfigured generator.
	ErrUnconfigured = errors.New("Gemini API not configured")
	// ErrGeneration wraps failures reported by the completion service.
	ErrGeneration = errors.New("completion failed")
)

// Generator turns a prompt into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Unconfigured is the Generator used when no API key was supplied.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, string) (string, error) {
	return "", ErrUnconfigured
}

// IsConfigured reports whether g can reach a completion service.
func IsConfigured(g Generator) bool {
	switch g.(type) {
	case nil, Unconfigured, *Unconfigured:
		return false
	}
	return true
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	models *genai.Models
	model  string
	logger zerolog.Logger
}

// New returns a Gemini generator for apiKey, or Unconfigured when apiKey is
// empty. An empty model selects DefaultModel.
func New(ctx context.Context, apiKey, model string, logger zerolog.Logger) (Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		logger.Warn().Msg("GEMINI_API_KEY not set, AI endpoints will be unavailable")
		return Unconfigured{}, nil
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	logger.Info().Str("model", model).Msg("Gemini API configured")
	return &Gemini{models: client.Models, model: model, logger: logger}, nil
}

// Generate sends prompt as a single user turn and returns the trimmed text of
// the first candidate. No retry is attempted.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.logger.Error().Err(err).Str("model", g.model).Msg("gemini generate content failed")
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
