package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/alqudimi/deepdoc"
)

// Ensure LoggingBackend implements deepdoc.ModelBackend.
var _ deepdoc.ModelBackend = (*LoggingBackend)(nil)

// LoggingBackend wraps a ModelBackend with debug logging of every model
// call. Prompts are not logged, only their size.
type LoggingBackend struct {
	next   deepdoc.ModelBackend
	logger *slog.Logger
}

// NewLoggingBackend creates a new LoggingBackend.
func NewLoggingBackend(next deepdoc.ModelBackend, logger *slog.Logger) *LoggingBackend {
	return &LoggingBackend{next: next, logger: logger}
}

// Generate delegates to the wrapped backend and logs the call.
func (b *LoggingBackend) Generate(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (text string, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("model call",
			"model", cfg.Model,
			"promptChars", len(prompt),
			"responseChars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Generate(ctx, prompt, cfg)
}
