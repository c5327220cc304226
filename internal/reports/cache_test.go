package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheVersionInitialises(t *testing.T) {
	cache := newTestCache(t)

	ver, err := cache.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
}

func TestBumpOrphansOldKeys(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, keyPL("biz-1", "2024-01-01", "2024-12-31"))
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, keyPL("biz-1", "2024-01-01", "2024-12-31"))
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestFetchJSONLoadsOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return &PLReport{TotalIncome: 1000}, nil
	}

	var first, second PLReport
	require.NoError(t, cache.FetchJSON(ctx, "reports:test:1", &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, "reports:test:1", &second, loader))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1000.0, second.TotalIncome)
}

func TestNilCacheDegradesToLoader(t *testing.T) {
	var cache *Cache

	var report PLReport
	err := cache.FetchJSON(context.Background(), "any", &report, func(ctx context.Context) (any, error) {
		return &PLReport{TotalNet: 42}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42.0, report.TotalNet)
}
