package mock

import (
	"context"
	"time"

	"github.com/alqudimi/deepdoc"
)

var (
	_ deepdoc.ResponseCache = (*ResponseCache)(nil)
	_ deepdoc.CacheAdmin    = (*CacheAdmin)(nil)
)

// ResponseCache is a mock implementation of deepdoc.ResponseCache.
type ResponseCache struct {
	GetFn func(ctx context.Context, fingerprint string) (string, bool, error)
	PutFn func(ctx context.Context, fingerprint, value string, ttl time.Duration) error
}

func (c *ResponseCache) Get(ctx context.Context, fingerprint string) (string, bool, error) {
	return c.GetFn(ctx, fingerprint)
}

func (c *ResponseCache) Put(ctx context.Context, fingerprint, value string, ttl time.Duration) error {
	return c.PutFn(ctx, fingerprint, value, ttl)
}

// CacheAdmin is a mock implementation of deepdoc.CacheAdmin.
type CacheAdmin struct {
	StatsFn        func(ctx context.Context) (deepdoc.CacheStats, error)
	ClearFn        func(ctx context.Context) (int, error)
	PurgeExpiredFn func(ctx context.Context) (int, error)
}

func (c *CacheAdmin) Stats(ctx context.Context) (deepdoc.CacheStats, error) {
	return c.StatsFn(ctx)
}

func (c *CacheAdmin) Clear(ctx context.Context) (int, error) {
	return c.ClearFn(ctx)
}

func (c *CacheAdmin) PurgeExpired(ctx context.Context) (int, error) {
	return c.PurgeExpiredFn(ctx)
}
