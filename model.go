package deepdoc

import (
	"context"
	"time"
)

// ModelConfig selects the model and sampling parameters for a single call.
type ModelConfig struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Timeout     time.Duration `json:"timeout"`
}

// Validate returns an error if the configuration cannot be sent to a backend.
func (c ModelConfig) Validate() error {
	if c.Model == "" {
		return Errorf(EINVALID, "model required")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return Errorf(EINVALID, "temperature must be between 0 and 1")
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	return nil
}

// ModelBackend performs a single whole-response generation request.
//
// Implementations classify failures with the error codes ECONNECTION
// (backend unreachable), ETIMEOUT (deadline exceeded), EMODEL (the model
// reported a failure or returned a malformed response) and ECANCELED.
type ModelBackend interface {
	Generate(ctx context.Context, prompt string, cfg ModelConfig) (string, error)
}

// Response is the result of a gateway invocation.
type Response struct {
	Text     string `json:"text"`
	Attempts int    `json:"attempts"`
}

// Gateway invokes a model backend under timeout, retry and admission
// control. Transient failures never surface past it; after the final
// attempt it returns a *RetryError.
type Gateway interface {
	Invoke(ctx context.Context, prompt string, cfg ModelConfig) (*Response, error)
}
