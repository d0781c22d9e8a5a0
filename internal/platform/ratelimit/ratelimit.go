package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

// Result mirrors a fixed-window counter after one attempt was recorded.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
	Reset(ctx context.Context, key string) error
}

func Key(action, identifier string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, identifier)
}

type redisLimiter struct {
	log    *logger.Logger
	rdb    *goredis.Client
	max    int
	window time.Duration
}

func NewRedisLimiter(ctx context.Context, log *logger.Logger, addr string, max int, window time.Duration) (Limiter, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisLimiter{
		log:    log.With("service", "RedisLimiter"),
		rdb:    rdb,
		max:    max,
		window: window,
	}, nil
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	var incr *goredis.IntCmd
	var ttl *goredis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, l.window)
		ttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	count := int(incr.Val())
	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = l.window
	}
	return decide(count, l.max, time.Now().Add(remaining)), nil
}

func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, key).Err()
}

type entry struct {
	count   int
	resetAt time.Time
}

type memoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter is the single-process fallback when no redis is configured.
func NewMemoryLimiter(max int, window time.Duration) Limiter {
	return &memoryLimiter{
		entries: map[string]*entry{},
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, e := range l.entries {
		if !e.resetAt.After(now) {
			delete(l.entries, k)
		}
	}
	e, ok := l.entries[key]
	if !ok {
		e = &entry{resetAt: now.Add(l.window)}
		l.entries[key] = e
	}
	if e.count >= l.max {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.resetAt}, nil
	}
	e.count++
	return decide(e.count, l.max, e.resetAt), nil
}

func (l *memoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}

func decide(count, max int, resetAt time.Time) Result {
	if count > max {
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}
	}
	return Result{Allowed: true, Remaining: max - count, ResetAt: resetAt}
}
