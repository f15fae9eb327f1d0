// Package ollama implements deepdoc.ModelBackend for a locally hosted
// Ollama server.
package ollama

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/alqudimi/deepdoc"
	"github.com/ollama/ollama/api"
)

// DefaultBaseURL is the address of a local Ollama server.
const DefaultBaseURL = "http://localhost:11434"

var _ deepdoc.ModelBackend = (*Backend)(nil)

// Backend sends prompts to the Ollama generate endpoint.
type Backend struct {
	client *api.Client

	// NumCtx overrides the model context window when positive.
	NumCtx int
}

// NewBackend creates a Backend for the server at baseURL. A nil httpClient
// uses http.DefaultClient. Deadlines come from the request context.
func NewBackend(baseURL string, httpClient *http.Client) (*Backend, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, deepdoc.Errorf(deepdoc.EINVALID, "invalid ollama base URL %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Backend{client: api.NewClient(u, httpClient)}, nil
}

// Generate returns the complete, non-streamed model response for prompt.
func (b *Backend) Generate(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (string, error) {
	if prompt == "" {
		return "", deepdoc.Errorf(deepdoc.EINVALID, "prompt required")
	}
	if cfg.Model == "" {
		return "", deepdoc.Errorf(deepdoc.EINVALID, "model required")
	}

	stream := false
	req := &api.GenerateRequest{
		Model:   cfg.Model,
		Prompt:  prompt,
		Stream:  &stream,
		Options: BuildOptions(cfg, b.NumCtx),
	}

	var sb strings.Builder
	err := b.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", translateError(cfg.Model, err)
	}
	return sb.String(), nil
}

// BuildOptions returns the model options sent with every request.
func BuildOptions(cfg deepdoc.ModelConfig, numCtx int) map[string]any {
	opts := map[string]any{
		"temperature": cfg.Temperature,
	}
	if numCtx > 0 {
		opts["num_ctx"] = numCtx
	}
	return opts
}

// translateError maps client failures onto deepdoc error codes. Context
// errors are returned unchanged so the gateway can tell a timeout from a
// cancellation.
func translateError(model string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.ErrorMessage
		if msg == "" {
			msg = statusErr.Status
		}
		switch {
		case statusErr.StatusCode == http.StatusNotFound:
			return deepdoc.Errorf(deepdoc.EINVALID, "ollama model %q not available: %s", model, msg)
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return deepdoc.Errorf(deepdoc.ECONNECTION, "ollama server busy: %s", msg)
		case statusErr.StatusCode >= http.StatusInternalServerError:
			return deepdoc.Errorf(deepdoc.EMODEL, "ollama server error: %s", msg)
		default:
			return deepdoc.Errorf(deepdoc.EINVALID, "ollama rejected request: %s", msg)
		}
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return deepdoc.Errorf(deepdoc.ECONNECTION, "cannot reach ollama: %v", err)
	}
	return deepdoc.Errorf(deepdoc.EMODEL, "ollama generate failed: %v", err)
}
