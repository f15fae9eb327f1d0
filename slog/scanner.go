// Package slog provides logging decorators for deepdoc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/alqudimi/deepdoc"
)

// Ensure LoggingScanner implements deepdoc.Scanner.
var _ deepdoc.Scanner = (*LoggingScanner)(nil)

// LoggingScanner wraps a Scanner with logging.
type LoggingScanner struct {
	next   deepdoc.Scanner
	logger *slog.Logger
}

// NewLoggingScanner creates a new LoggingScanner.
func NewLoggingScanner(next deepdoc.Scanner, logger *slog.Logger) *LoggingScanner {
	return &LoggingScanner{next: next, logger: logger}
}

// Scan delegates to the wrapped scanner and logs the operation.
func (s *LoggingScanner) Scan(ctx context.Context, root string) (result *deepdoc.ScanResult, err error) {
	defer func(begin time.Time) {
		files, lines := 0, 0
		if result != nil {
			files, lines = result.TotalFiles, result.TotalLines
		}
		s.logger.Info("scan",
			"path", root,
			"files", files,
			"lines", lines,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scan(ctx, root)
}
