package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nusarupa/nusarupa/internal/cache"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// WindowLimiter: fixed window sencillo sobre cache.Client (INCR con TTL).
// Funciona igual con backend memory o redis.
type WindowLimiter struct {
	Client cache.Client
	Prefix string
	Max    int64
	Window time.Duration
}

func NewWindowLimiter(client cache.Client, prefix string, max int, window time.Duration) *WindowLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &WindowLimiter{
		Client: client,
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
	}
}

func (l *WindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)
	cacheKey := fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	hits, err := l.Client.Incr(ctx, cacheKey, l.Window)
	if err != nil {
		return Result{}, err
	}

	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	ttl := winStart.Add(l.Window).Sub(now)
	if ttl < 0 {
		ttl = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !allowed {
		// Retry after: resto de la ventana
		res.RetryAfter = ttl
	}
	return res, nil
}
