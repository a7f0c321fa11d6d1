// internal/adapters/redis_adapter/cache_test.go
package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/shelftrack/shelftrack-be/internal/adapters/redis_adapter"
	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
	"github.com/shelftrack/shelftrack-be/test/helpers"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, ports.CacheRepository) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger())
}

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	entries := []domain.ReorderEntry{
		{ItemID: 1, Name: "Whole Milk", CurrentStock: 2, ReorderLevel: 5, TargetStock: 30, ReorderQuantity: 28},
		{ItemID: 3, Name: "Sourdough", CurrentStock: 0, ReorderLevel: 4, TargetStock: 12, ReorderQuantity: 12},
	}

	key := redis_a.BuildKey(redis_a.PrefixReorder, "1")
	require.NoError(t, cache.Set(ctx, key, entries))

	var got []domain.ReorderEntry
	require.NoError(t, cache.Get(ctx, key, &got))
	assert.Equal(t, entries, got)
}

func TestCache_GetMiss(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	var dest []domain.ReorderEntry
	err := cache.Get(ctx, "reorder:999", &dest)

	require.Error(t, err)
	assert.ErrorIs(t, err, redis_a.ErrCacheMiss)
}

func TestCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t)

	key := redis_a.BuildKey(redis_a.PrefixReorder, "1")
	require.NoError(t, cache.SetWithTTL(ctx, key, []domain.ReorderEntry{}, time.Minute))

	var dest []domain.ReorderEntry
	require.NoError(t, cache.Get(ctx, key, &dest))

	mr.FastForward(2 * time.Minute)

	err := cache.Get(ctx, key, &dest)
	assert.ErrorIs(t, err, redis_a.ErrCacheMiss)
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	require.NoError(t, cache.Set(ctx, "reorder:1", "a"))
	require.NoError(t, cache.Set(ctx, "reorder:2", "b"))

	require.NoError(t, cache.Delete(ctx, "reorder:1", "reorder:2"))

	var dest string
	assert.ErrorIs(t, cache.Get(ctx, "reorder:1", &dest), redis_a.ErrCacheMiss)
	assert.ErrorIs(t, cache.Get(ctx, "reorder:2", &dest), redis_a.ErrCacheMiss)

	// Deleting nothing is a no-op.
	assert.NoError(t, cache.Delete(ctx))
}

func TestCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	require.NoError(t, cache.Set(ctx, "export:json:1", "a"))
	require.NoError(t, cache.Set(ctx, "export:json:2", "b"))
	require.NoError(t, cache.Set(ctx, "reorder:1", "c"))

	require.NoError(t, cache.DeletePattern(ctx, "export:*"))

	var dest string
	assert.ErrorIs(t, cache.Get(ctx, "export:json:1", &dest), redis_a.ErrCacheMiss)
	assert.ErrorIs(t, cache.Get(ctx, "export:json:2", &dest), redis_a.ErrCacheMiss)
	assert.NoError(t, cache.Get(ctx, "reorder:1", &dest))
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	key := redis_a.BuildKey(redis_a.PrefixReorder, "7")
	entries := []domain.ReorderEntry{
		{ItemID: 9, Name: "Coffee Beans", CurrentStock: 1, ReorderLevel: 3, TargetStock: 10, ReorderQuantity: 9},
	}

	t.Run("miss_fetches_and_populates", func(t *testing.T) {
		fetchCalls := 0
		var dest []domain.ReorderEntry

		err := cache.GetOrSet(ctx, key, &dest, func() (interface{}, error) {
			fetchCalls++
			return entries, nil
		}, time.Minute)

		require.NoError(t, err)
		assert.Equal(t, 1, fetchCalls)
		assert.Equal(t, entries, dest)
	})

	t.Run("hit_skips_fetch", func(t *testing.T) {
		var dest []domain.ReorderEntry

		err := cache.GetOrSet(ctx, key, &dest, func() (interface{}, error) {
			t.Fatal("fetch should not run on a cache hit")
			return nil, nil
		}, time.Minute)

		require.NoError(t, err)
		assert.Equal(t, entries, dest)
	})

	t.Run("fetch_error_propagates", func(t *testing.T) {
		var dest []domain.ReorderEntry

		err := cache.GetOrSet(ctx, "reorder:broken", &dest, func() (interface{}, error) {
			return nil, errors.New("catalog unavailable")
		}, time.Minute)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog unavailable")
	})
}

func TestBuildKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   redis_a.CacheKeyPrefix
		parts    []string
		expected string
	}{
		{name: "single_part", prefix: redis_a.PrefixReorder, parts: []string{"1"}, expected: "reorder:1"},
		{name: "multiple_parts", prefix: redis_a.PrefixExport, parts: []string{"json", "42"}, expected: "export:json:42"},
		{name: "no_parts", prefix: redis_a.PrefixCatalog, parts: nil, expected: "catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, redis_a.BuildKey(tt.prefix, tt.parts...))
		})
	}
}
