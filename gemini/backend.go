// Package gemini implements deepdoc.ModelBackend using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/alqudimi/deepdoc"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration names the gemini backend
// without choosing a model.
const DefaultModel = "gemini-2.5-flash"

const systemInstruction = "You are a technical writer producing Markdown documentation for a software project. " +
	"Describe only what the provided project information supports and never leave placeholders for the reader to fill in."

// Ensure Backend implements deepdoc.ModelBackend at compile time.
var _ deepdoc.ModelBackend = (*Backend)(nil)

// Backend implements deepdoc.ModelBackend using Google Gemini.
type Backend struct {
	client *genai.Client
}

// NewBackend creates a new Backend.
func NewBackend(client *genai.Client) *Backend {
	return &Backend{client: client}
}

// Generate sends prompt as a single user turn and returns the response text.
func (b *Backend) Generate(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (string, error) {
	if prompt == "" {
		return "", deepdoc.Errorf(deepdoc.EINVALID, "prompt required")
	}
	if cfg.Model == "" {
		return "", deepdoc.Errorf(deepdoc.EINVALID, "model required")
	}

	result, err := b.client.Models.GenerateContent(ctx, cfg.Model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		BuildConfig(cfg),
	)
	if err != nil {
		return "", TranslateError(err)
	}
	if result == nil {
		return "", deepdoc.Errorf(deepdoc.EMODEL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(cfg deepdoc.ModelConfig) *genai.GenerateContentConfig {
	temp := float32(cfg.Temperature)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature: &temp,
	}
}

// TranslateError maps Gemini API failures onto deepdoc error codes. Context
// errors are returned unchanged.
func TranslateError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return deepdoc.Errorf(deepdoc.ECONNECTION, "gemini request failed: %v", err)
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return deepdoc.Errorf(deepdoc.ECONNECTION, "gemini quota exceeded: %s", apiErr.Message)
	case apiErr.Code >= http.StatusInternalServerError:
		return deepdoc.Errorf(deepdoc.EMODEL, "gemini server error: %s", apiErr.Message)
	default:
		return deepdoc.Errorf(deepdoc.EINVALID, "gemini rejected request (%d %s): %s", apiErr.Code, apiErr.Status, apiErr.Message)
	}
}
