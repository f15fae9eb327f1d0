package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alqudimi/deepdoc"
)

var (
	_ deepdoc.ResponseCache = (*Cache)(nil)
	_ deepdoc.CacheAdmin    = (*Cache)(nil)
)

// Cache implements deepdoc.ResponseCache on the cache_entries table.
// Timestamps are stored as Unix nanoseconds.
type Cache struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCache creates a new Cache.
func NewCache(db *DB) *Cache {
	return &Cache{db: db, Now: time.Now}
}

// Get returns the value stored under fingerprint. An expired row is
// deleted and reported as a miss.
func (c *Cache) Get(ctx context.Context, fingerprint string) (string, bool, error) {
	var value string
	var expiresAt int64
	err := c.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM cache_entries WHERE fingerprint = ?
	`, fingerprint).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if c.Now().UnixNano() > expiresAt {
		if _, err := c.db.ExecContext(ctx, `
			DELETE FROM cache_entries WHERE fingerprint = ? AND expires_at = ?
		`, fingerprint, expiresAt); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return value, true, nil
}

// Put stores value under fingerprint until ttl elapses, replacing any
// existing entry.
func (c *Cache) Put(ctx context.Context, fingerprint, value string, ttl time.Duration) error {
	if fingerprint == "" {
		return deepdoc.Errorf(deepdoc.EINVALID, "fingerprint required")
	}
	if ttl <= 0 {
		return deepdoc.Errorf(deepdoc.EINVALID, "ttl must be positive")
	}

	now := c.Now()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (fingerprint, value, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			value = excluded.value,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, fingerprint, value, now.UnixNano(), now.Add(ttl).UnixNano())
	return err
}

// Stats counts live and expired entries.
func (c *Cache) Stats(ctx context.Context) (deepdoc.CacheStats, error) {
	var s deepdoc.CacheStats
	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN expires_at < ? THEN 1 ELSE 0 END), 0)
		FROM cache_entries
	`, c.Now().UnixNano()).Scan(&s.Entries, &s.Expired)
	return s, err
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries")
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// PurgeExpired removes entries that have expired.
func (c *Cache) PurgeExpired(ctx context.Context) (int, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE expires_at < ?", c.Now().UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}
