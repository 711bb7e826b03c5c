package osc_test

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/osc-tiny/pkg/osc"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("identical requests map to the same key", func(t *testing.T) {
		t.Parallel()

		query := url.Values{"rev": {"5"}, "expand": {"1"}}

		first := osc.Fingerprint("GET", "/source/openSUSE:Factory/osc", query, nil)
		second := osc.Fingerprint("GET", "/source/openSUSE:Factory/osc", query, nil)

		assert.Equal(t, first, second)
	})

	t.Run("parameter order does not matter", func(t *testing.T) {
		t.Parallel()

		first := url.Values{}
		first.Set("expand", "1")
		first.Set("rev", "5")

		second := url.Values{}
		second.Set("rev", "5")
		second.Set("expand", "1")

		assert.Equal(t,
			osc.Fingerprint("GET", "/source/p/pkg", first, nil),
			osc.Fingerprint("GET", "/source/p/pkg", second, nil))
	})

	t.Run("method and path distinguish keys", func(t *testing.T) {
		t.Parallel()

		get := osc.Fingerprint("GET", "/source/p", nil, nil)
		del := osc.Fingerprint("DELETE", "/source/p", nil, nil)
		other := osc.Fingerprint("GET", "/source/q", nil, nil)

		assert.NotEqual(t, get, del)
		assert.NotEqual(t, get, other)
	})

	t.Run("body content distinguishes keys", func(t *testing.T) {
		t.Parallel()

		empty := osc.Fingerprint("POST", "/request/1", nil, nil)
		one := osc.Fingerprint("POST", "/request/1", nil, []byte("approve"))
		two := osc.Fingerprint("POST", "/request/1", nil, []byte("decline"))

		assert.NotEqual(t, empty, one)
		assert.NotEqual(t, one, two)
	})
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		cache := osc.NewMemoryCache(10)
		entry := &osc.CacheEntry{StatusCode: 200, Body: []byte("<status/>")}

		require.NoError(t, cache.Set(ctx, "key", entry))

		got, err := cache.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, 200, got.StatusCode)
		assert.Equal(t, []byte("<status/>"), got.Body)
		assert.False(t, got.StoredAt.IsZero())
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		cache := osc.NewMemoryCache(10)

		_, err := cache.Get(ctx, "absent")
		require.ErrorIs(t, err, osc.ErrCacheKeyNotFound)
		assert.False(t, cache.Has(ctx, "absent"))
	})

	t.Run("expired entry", func(t *testing.T) {
		t.Parallel()

		cache := osc.NewMemoryCache(10)
		entry := &osc.CacheEntry{
			StatusCode: 200,
			ExpiresAt:  time.Now().Add(-time.Minute),
		}

		require.NoError(t, cache.Set(ctx, "stale", entry))

		_, err := cache.Get(ctx, "stale")
		require.ErrorIs(t, err, osc.ErrCacheEntryExpired)
		assert.False(t, cache.Has(ctx, "stale"))
	})

	t.Run("evicts the oldest entry when full", func(t *testing.T) {
		t.Parallel()

		cache := osc.NewMemoryCache(2)

		require.NoError(t, cache.Set(ctx, "first", &osc.CacheEntry{StoredAt: time.Now().Add(-2 * time.Hour)}))
		require.NoError(t, cache.Set(ctx, "second", &osc.CacheEntry{StoredAt: time.Now().Add(-time.Hour)}))
		require.NoError(t, cache.Set(ctx, "third", &osc.CacheEntry{}))

		assert.False(t, cache.Has(ctx, "first"))
		assert.True(t, cache.Has(ctx, "second"))
		assert.True(t, cache.Has(ctx, "third"))
	})

	t.Run("delete and clear", func(t *testing.T) {
		t.Parallel()

		cache := osc.NewMemoryCache(10)

		for i := 0; i < 5; i++ {
			require.NoError(t, cache.Set(ctx, fmt.Sprintf("key-%d", i), &osc.CacheEntry{}))
		}

		require.NoError(t, cache.Delete(ctx, "key-0"))
		assert.False(t, cache.Has(ctx, "key-0"))
		assert.True(t, cache.Has(ctx, "key-1"))

		require.NoError(t, cache.Clear(ctx))
		assert.False(t, cache.Has(ctx, "key-1"))
	})

	t.Run("cleanup drops only expired entries", func(t *testing.T) {
		t.Parallel()

		cache := osc.NewMemoryCache(10)

		require.NoError(t, cache.Set(ctx, "live", &osc.CacheEntry{}))
		require.NoError(t, cache.Set(ctx, "dead", &osc.CacheEntry{ExpiresAt: time.Now().Add(-time.Second)}))

		cache.Cleanup()

		assert.True(t, cache.Has(ctx, "live"))
		assert.False(t, cache.Has(ctx, "dead"))
	})
}
