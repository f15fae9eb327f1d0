package deepdoc

import (
	"context"
	"time"
)

// CacheEntry is a model response stored under its fingerprint.
type CacheEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the entry is past its expiry at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// ResponseCache maps stage fingerprints to previously obtained model
// responses. Implementations must be safe for concurrent use.
type ResponseCache interface {
	// Get returns the value stored under fingerprint. ok is false when the
	// entry is absent or expired; expired entries are removed on access.
	Get(ctx context.Context, fingerprint string) (value string, ok bool, err error)

	// Put stores value under fingerprint for ttl. The last Put wins.
	Put(ctx context.Context, fingerprint, value string, ttl time.Duration) error
}

// CacheStats describes the contents of a persistent cache.
type CacheStats struct {
	Entries int `json:"entries"`
	Expired int `json:"expired"`
}

// CacheAdmin is implemented by caches that support maintenance from the CLI.
type CacheAdmin interface {
	Stats(ctx context.Context) (CacheStats, error)

	// Clear removes every entry.
	Clear(ctx context.Context) (int, error)

	// PurgeExpired removes entries that expired before now.
	PurgeExpired(ctx context.Context) (int, error)
}
