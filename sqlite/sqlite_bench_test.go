package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alqudimi/deepdoc/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCachePut compares cache write throughput between WAL and
// rollback journal modes.
func BenchmarkCachePut(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkCachePut(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkCachePut(b, true)
	})
}

func benchmarkCachePut(b *testing.B, useWAL bool) {
	b.Helper()

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	if !useWAL {
		_, err := db.ExecContext(ctx, "PRAGMA journal_mode = DELETE")
		require.NoError(b, err)
	}

	cache := sqlite.NewCache(db)
	value := strings.Repeat("x", 4096)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		require.NoError(b, cache.Put(ctx, fmt.Sprintf("fp-%d", i), value, time.Hour))
	}
}
