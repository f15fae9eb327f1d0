// Package gateway invokes model backends under a timeout, a retry policy
// and process-wide admission control.
package gateway

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alqudimi/deepdoc"
)

var _ deepdoc.Gateway = (*Gateway)(nil)

// Gateway implements deepdoc.Gateway on top of a deepdoc.ModelBackend.
type Gateway struct {
	backend deepdoc.ModelBackend
	limiter *Limiter
	policy  RetryPolicy
	logger  *slog.Logger
}

// NewGateway creates a Gateway. The limiter is shared state and should be
// the same instance for every gateway in the process.
func NewGateway(backend deepdoc.ModelBackend, limiter *Limiter, policy RetryPolicy, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gateway{
		backend: backend,
		limiter: limiter,
		policy:  policy,
		logger:  logger,
	}
}

// Invoke sends prompt to the backend. Each attempt holds a limiter slot
// only while the backend call runs and is bounded by cfg.Timeout.
// Failures are returned as *deepdoc.RetryError.
func (g *Gateway) Invoke(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (*deepdoc.Response, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &deepdoc.RetryError{Attempts: 0, Err: err}
	}
	if prompt == "" {
		return nil, &deepdoc.RetryError{Attempts: 0, Err: deepdoc.Errorf(deepdoc.EINVALID, "prompt required")}
	}

	var text string
	attempts, err := g.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		out, err := g.attempt(ctx, prompt, cfg)
		if err != nil {
			if attempt < g.policy.MaxAttempts && deepdoc.IsRetryable(err) {
				g.logger.Warn("model call failed, retrying",
					"model", cfg.Model,
					"attempt", attempt,
					"code", deepdoc.ErrorCode(err),
					"err", err)
			}
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deepdoc.Response{Text: text, Attempts: attempts}, nil
}

func (g *Gateway) attempt(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (string, error) {
	release, err := g.limiter.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	actx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	out, err := g.backend.Generate(actx, prompt, cfg)
	if err != nil {
		return "", classify(ctx, actx, err)
	}
	return out, nil
}

// classify maps a backend failure onto the error codes the retry policy
// understands. A deadline on the attempt context is a timeout even if the
// backend reported it differently; a done parent context is a cancellation.
func classify(parent, attempt context.Context, err error) error {
	switch {
	case parent.Err() != nil:
		return deepdoc.Errorf(deepdoc.ECANCELED, "model call canceled: %v", err)
	case errors.Is(attempt.Err(), context.DeadlineExceeded):
		return deepdoc.Errorf(deepdoc.ETIMEOUT, "model call timed out: %v", err)
	case deepdoc.ErrorCode(err) != deepdoc.EINTERNAL:
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return deepdoc.Errorf(deepdoc.ETIMEOUT, "model call timed out: %v", err)
	}
	return deepdoc.Errorf(deepdoc.EMODEL, "model call failed: %v", err)
}
