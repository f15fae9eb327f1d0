package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/alqudimi/deepdoc"
)

// Ensure LoggingWriter implements deepdoc.DocumentWriter.
var _ deepdoc.DocumentWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps a DocumentWriter with logging.
type LoggingWriter struct {
	next   deepdoc.DocumentWriter
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter.
func NewLoggingWriter(next deepdoc.DocumentWriter, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, logger: logger}
}

// WriteDocuments delegates to the wrapped writer and logs the outcome.
func (w *LoggingWriter) WriteDocuments(ctx context.Context, set *deepdoc.DocumentSet) (result *deepdoc.WriteResult, err error) {
	defer func(begin time.Time) {
		written, skipped := 0, 0
		if result != nil {
			written, skipped = len(result.Written), len(result.Skipped)
		}
		w.logger.Info("write documents",
			"written", written,
			"skipped", skipped,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteDocuments(ctx, set)
}
