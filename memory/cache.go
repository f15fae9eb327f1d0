// Package memory provides an in-process response cache.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alqudimi/deepdoc"
)

var (
	_ deepdoc.ResponseCache = (*Cache)(nil)
	_ deepdoc.CacheAdmin    = (*Cache)(nil)
)

// Cache is a map of fingerprints to responses with per-entry expiry.
// Expired entries are removed when they are next read. It is safe for
// concurrent use and may be shared by every run in the process.
type Cache struct {
	mu      sync.Mutex
	entries map[string]deepdoc.CacheEntry

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]deepdoc.CacheEntry),
		Now:     time.Now,
	}
}

// Get returns the value stored under fingerprint.
func (c *Cache) Get(_ context.Context, fingerprint string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fingerprint]
	if !ok {
		return "", false, nil
	}
	if e.Expired(c.Now()) {
		delete(c.entries, fingerprint)
		return "", false, nil
	}
	return e.Value, true, nil
}

// Put stores value under fingerprint until ttl elapses.
func (c *Cache) Put(_ context.Context, fingerprint, value string, ttl time.Duration) error {
	if fingerprint == "" {
		return deepdoc.Errorf(deepdoc.EINVALID, "fingerprint required")
	}
	if ttl <= 0 {
		return deepdoc.Errorf(deepdoc.EINVALID, "ttl must be positive")
	}

	now := c.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = deepdoc.CacheEntry{
		Fingerprint: fingerprint,
		Value:       value,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	return nil
}

// Stats counts live and expired entries.
func (c *Cache) Stats(_ context.Context) (deepdoc.CacheStats, error) {
	now := c.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	var s deepdoc.CacheStats
	for _, e := range c.entries {
		s.Entries++
		if e.Expired(now) {
			s.Expired++
		}
	}
	return s, nil
}

// Clear removes every entry.
func (c *Cache) Clear(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]deepdoc.CacheEntry)
	return n, nil
}

// PurgeExpired removes expired entries.
func (c *Cache) PurgeExpired(_ context.Context) (int, error) {
	now := c.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for fp, e := range c.entries {
		if e.Expired(now) {
			delete(c.entries, fp)
			n++
		}
	}
	return n, nil
}
