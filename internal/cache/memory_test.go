package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/cache"
)

func TestMemorySetGet(t *testing.T) {
	c := cache.NewMemory("test", time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMemoryGetMissing(t *testing.T) {
	c := cache.NewMemory("test", time.Minute)
	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemoryDelete(t *testing.T) {
	c := cache.NewMemory("test", time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemoryExpiry(t *testing.T) {
	c := cache.NewMemory("test", time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemoryIncr(t *testing.T) {
	c := cache.NewMemory("test", time.Minute)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, "hits", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestMemoryIncrResetsAfterTTL(t *testing.T) {
	c := cache.NewMemory("test", time.Minute)
	ctx := context.Background()

	n, err := c.Incr(ctx, "hits", 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	time.Sleep(40 * time.Millisecond)

	n, err = c.Incr(ctx, "hits", 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "ventana nueva empieza de cero")
}

func TestMemoryPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	a := cache.NewMemory("a", time.Minute)
	b := cache.NewMemory("b", time.Minute)

	require.NoError(t, a.Set(ctx, "k", "va", time.Minute))

	_, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
