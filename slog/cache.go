package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/alqudimi/deepdoc"
)

// Ensure LoggingCache implements deepdoc.ResponseCache.
var _ deepdoc.ResponseCache = (*LoggingCache)(nil)

// LoggingCache wraps a ResponseCache with debug logging.
type LoggingCache struct {
	next   deepdoc.ResponseCache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next deepdoc.ResponseCache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Get delegates to the wrapped cache and logs hits and misses.
func (c *LoggingCache) Get(ctx context.Context, fingerprint string) (value string, ok bool, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache get",
			"fingerprint", fingerprint,
			"hit", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Get(ctx, fingerprint)
}

// Put delegates to the wrapped cache and logs the write.
func (c *LoggingCache) Put(ctx context.Context, fingerprint, value string, ttl time.Duration) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache put",
			"fingerprint", fingerprint,
			"bytes", len(value),
			"ttl", ttl,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Put(ctx, fingerprint, value, ttl)
}
