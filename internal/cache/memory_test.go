package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	mc := NewMemoryCache(nil)
	t.Cleanup(func() { mc.Close() })
	return mc
}

func TestMemoryCacheSetGet(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), 0))

	got, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := newTestCache(t)

	_, err := mc.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, mc.Delete(ctx, "k"))

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestMemoryCacheKeysArePrefixed(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), 0))

	mc.mu.RLock()
	defer mc.mu.RUnlock()
	_, exists := mc.items["cheminv:k"]
	assert.True(t, exists)
}

func TestMemoryCachePing(t *testing.T) {
	mc := newTestCache(t)
	assert.NoError(t, mc.Ping(context.Background()))
}
