package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/alqudimi/deepdoc"
	"github.com/alqudimi/deepdoc/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*sqlite.Cache, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := sqlite.NewCache(setupTestDB(t))
	c.Now = func() time.Time { return now }
	return c, &now
}

func TestCache_GetPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns a stored value within its ttl", func(t *testing.T) {
		t.Parallel()

		c, now := newTestCache(t)
		require.NoError(t, c.Put(ctx, "fp", "# README\n", 24*time.Hour))
		*now = now.Add(23 * time.Hour)

		v, ok, err := c.Get(ctx, "fp")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "# README\n", v)
	})

	t.Run("misses and deletes an expired entry", func(t *testing.T) {
		t.Parallel()

		c, now := newTestCache(t)
		require.NoError(t, c.Put(ctx, "fp", "v", time.Hour))
		*now = now.Add(2 * time.Hour)

		_, ok, err := c.Get(ctx, "fp")
		require.NoError(t, err)
		assert.False(t, ok)

		stats, err := c.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Entries)
	})

	t.Run("misses unknown fingerprints", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCache(t)

		_, ok, err := c.Get(ctx, "missing")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("last put wins and refreshes expiry", func(t *testing.T) {
		t.Parallel()

		c, now := newTestCache(t)
		require.NoError(t, c.Put(ctx, "fp", "old", time.Hour))
		*now = now.Add(50 * time.Minute)
		require.NoError(t, c.Put(ctx, "fp", "new", time.Hour))
		*now = now.Add(50 * time.Minute)

		v, ok, err := c.Get(ctx, "fp")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "new", v)
	})

	t.Run("rejects invalid puts", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCache(t)

		assert.Equal(t, deepdoc.EINVALID, deepdoc.ErrorCode(c.Put(ctx, "", "v", time.Hour)))
		assert.Equal(t, deepdoc.EINVALID, deepdoc.ErrorCode(c.Put(ctx, "fp", "v", -time.Second)))
	})
}

func TestCache_Admin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, now := newTestCache(t)
	require.NoError(t, c.Put(ctx, "a", "v", time.Minute))
	require.NoError(t, c.Put(ctx, "b", "v", time.Hour))
	require.NoError(t, c.Put(ctx, "c", "v", time.Hour))
	*now = now.Add(10 * time.Minute)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, deepdoc.CacheStats{Entries: 3, Expired: 1}, stats)

	purged, err := c.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	cleared, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)
}

func TestCache_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := t.TempDir() + "/cache.db"

	db := sqlite.NewDB(path)
	require.NoError(t, db.Open())
	require.NoError(t, sqlite.NewCache(db).Put(ctx, "fp", "persisted", time.Hour))
	require.NoError(t, db.Close())

	db = sqlite.NewDB(path)
	require.NoError(t, db.Open())
	defer db.Close()

	v, ok, err := sqlite.NewCache(db).Get(ctx, "fp")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}
