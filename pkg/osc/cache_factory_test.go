package osc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/osc-tiny/pkg/osc"
)

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil config defaults to memory", func(t *testing.T) {
		t.Parallel()

		cache, err := osc.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &osc.MemoryCache{}, cache)
	})

	t.Run("memory cache with custom size", func(t *testing.T) {
		t.Parallel()

		cache, err := osc.NewCacheFromConfig(&osc.CacheConfig{
			Type:   osc.CacheTypeMemory,
			Memory: &osc.MemoryCacheConfig{MaxSize: 5},
		})
		require.NoError(t, err)
		assert.IsType(t, &osc.MemoryCache{}, cache)
	})

	t.Run("none disables caching", func(t *testing.T) {
		t.Parallel()

		cache, err := osc.NewCacheFromConfig(&osc.CacheConfig{Type: osc.CacheTypeNone})
		require.NoError(t, err)

		_, err = cache.Get(context.Background(), "anything")
		require.ErrorIs(t, err, osc.ErrCacheDisabled)
		assert.NoError(t, cache.Set(context.Background(), "anything", &osc.CacheEntry{}))
		assert.False(t, cache.Has(context.Background(), "anything"))
	})

	t.Run("nats without configuration", func(t *testing.T) {
		t.Parallel()

		_, err := osc.NewCacheFromConfig(&osc.CacheConfig{Type: osc.CacheTypeNATS})
		require.ErrorIs(t, err, osc.ErrNATSConfigRequired)
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()

		_, err := osc.NewCacheFromConfig(&osc.CacheConfig{Type: "redis"})
		require.ErrorIs(t, err, osc.ErrUnsupportedCacheType)
	})
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("later hit populates earlier layers", func(t *testing.T) {
		t.Parallel()

		l1 := osc.NewMemoryCache(10)
		l2 := osc.NewMemoryCache(10)
		chain := osc.NewCacheChain(l1, l2)

		require.NoError(t, l2.Set(ctx, "key", &osc.CacheEntry{StatusCode: 200}))
		assert.False(t, l1.Has(ctx, "key"))

		entry, err := chain.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, 200, entry.StatusCode)

		// The L1 layer now carries the entry.
		assert.True(t, l1.Has(ctx, "key"))
	})

	t.Run("miss in every layer", func(t *testing.T) {
		t.Parallel()

		chain := osc.NewCacheChain(osc.NewMemoryCache(10), osc.NewMemoryCache(10))

		_, err := chain.Get(ctx, "absent")
		require.ErrorIs(t, err, osc.ErrKeyNotFoundInAnyCache)
	})

	t.Run("set and delete fan out", func(t *testing.T) {
		t.Parallel()

		l1 := osc.NewMemoryCache(10)
		l2 := osc.NewMemoryCache(10)
		chain := osc.NewCacheChain(l1, l2)

		require.NoError(t, chain.Set(ctx, "key", &osc.CacheEntry{StatusCode: 200}))
		assert.True(t, l1.Has(ctx, "key"))
		assert.True(t, l2.Has(ctx, "key"))
		assert.True(t, chain.Has(ctx, "key"))

		require.NoError(t, chain.Delete(ctx, "key"))
		assert.False(t, l1.Has(ctx, "key"))
		assert.False(t, l2.Has(ctx, "key"))
	})
}
