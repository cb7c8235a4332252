// Package ratelimit implements a fixed-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describes the state of a client's window after a hit.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Limiter counts a hit for key and reports whether it is within budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter shares windows across instances through Redis.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

// NewRedisLimiter allows max hits per window per key.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "ratelimit:", max: max, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	k := l.prefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", key, err)
	}

	resetIn := ttl.Val()
	if resetIn <= 0 {
		// First hit of the window, or a key left without expiry.
		if err := l.client.PExpire(ctx, k, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit expire %s: %w", key, err)
		}
		resetIn = l.window
	}
	return newResult(int(incr.Val()), l.max, resetIn), nil
}

// MemoryLimiter keeps windows in process. It serves single-instance runs
// without Redis and tests.
type MemoryLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	windows map[string]*memoryWindow
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter allows max hits per window per key.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*memoryWindow),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(l.window)}
		l.windows[key] = w
	}
	w.count++
	return newResult(w.count, l.max, w.resetAt.Sub(now)), nil
}

func newResult(count, max int, resetIn time.Duration) Result {
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: count <= max, Limit: max, Remaining: remaining, ResetIn: resetIn}
}
