package rate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/cache"
	"github.com/nusarupa/nusarupa/internal/rate"
)

func newLimiter(max int, window time.Duration) *rate.WindowLimiter {
	return rate.NewWindowLimiter(cache.NewMemory("", time.Minute), "rl:test:", max, window)
}

func TestAllowUntilLimit(t *testing.T) {
	l := newLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4:/v1/auth/login")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "hit %d dentro del límite", i)
		assert.Equal(t, int64(3-i), res.Remaining)
		assert.Equal(t, int64(i), res.CurrentHits)
	}
}

func TestDeniedOverLimit(t *testing.T) {
	l := newLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
	}

	res, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining, "remaining nunca negativo")
	assert.Greater(t, res.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, res.RetryAfter, time.Minute)
}

func TestKeysAreIndependent(t *testing.T) {
	l := newLimiter(1, time.Minute)
	ctx := context.Background()

	res, err := l.Allow(ctx, "ip-a")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Allow(ctx, "ip-b")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "otra clave, otra cuenta")

	res, err = l.Allow(ctx, "ip-a")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestWindowResets(t *testing.T) {
	l := newLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	res, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	// Espera a que arranque la ventana siguiente.
	time.Sleep(80 * time.Millisecond)

	res, err = l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
