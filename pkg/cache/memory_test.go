package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, maxSize int) (*MemoryCache, *time.Time) {
	t.Helper()
	mc := NewMemoryCache(WithMemoryMaxSize(maxSize), WithMemoryCleanup(time.Hour))
	t.Cleanup(func() { _ = mc.Close() })

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }
	return mc, &now
}

func TestMemoryCacheTTLBoundaries(t *testing.T) {
	mc, now := newTestCache(t, 10)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", 24*time.Hour))

	var got string
	*now = now.Add(24*time.Hour - time.Second)
	require.NoError(t, mc.Get(ctx, "k", &got), "entry one second before expiry must hit")
	assert.Equal(t, "v", got)

	*now = now.Add(2 * time.Second) // now 24h + 1s past Set
	assert.ErrorIs(t, mc.Get(ctx, "k", &got), ErrCacheMiss, "entry one second after expiry must miss")
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc, now := newTestCache(t, 2)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Hour))
	*now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, time.Hour))

	// Touch "a" so "b" becomes least recently used.
	var v int
	*now = now.Add(time.Second)
	require.NoError(t, mc.Get(ctx, "a", &v))

	*now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, time.Hour))

	assert.NoError(t, mc.Get(ctx, "a", &v))
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "c", &v))
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc, now := newTestCache(t, 10)
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mc.TryLock(ctx, "lock", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second lock attempt must fail while held")

	require.NoError(t, mc.Unlock(ctx, "lock"))
	ok, _ = mc.TryLock(ctx, "lock", time.Minute)
	assert.True(t, ok)

	// Expired locks are reacquirable.
	*now = now.Add(2 * time.Minute)
	ok, _ = mc.TryLock(ctx, "lock", time.Minute)
	assert.True(t, ok)
}

func TestMemoryCacheFlush(t *testing.T) {
	mc, _ := newTestCache(t, 10)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, time.Hour))
	require.NoError(t, mc.Flush(ctx))

	var v int
	assert.ErrorIs(t, mc.Get(ctx, "a", &v), ErrCacheMiss)
}
