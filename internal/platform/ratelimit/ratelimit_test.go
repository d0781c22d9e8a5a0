package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(5, 15*time.Minute).(*memoryLimiter)
	l.now = func() time.Time { return now }
	ctx := context.Background()
	key := Key("login", "1.2.3.4")

	for i := 1; i <= 5; i++ {
		res, err := l.Allow(ctx, key)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed || res.Remaining != 5-i {
			t.Fatalf("attempt %d: got %+v", i, res)
		}
	}
	res, _ := l.Allow(ctx, key)
	if res.Allowed {
		t.Fatalf("6th attempt should be blocked")
	}
	if !res.ResetAt.Equal(now.Add(15 * time.Minute)) {
		t.Fatalf("reset at: got %v", res.ResetAt)
	}

	now = now.Add(15 * time.Minute)
	res, _ = l.Allow(ctx, key)
	if !res.Allowed || res.Remaining != 4 {
		t.Fatalf("window should have rolled over, got %+v", res)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()
	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatalf("a should be allowed")
	}
	if res, _ := l.Allow(ctx, "b"); !res.Allowed {
		t.Fatalf("b should be allowed")
	}
	if res, _ := l.Allow(ctx, "a"); res.Allowed {
		t.Fatalf("a should be blocked")
	}
	_ = l.Reset(ctx, "a")
	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatalf("a should be allowed after reset")
	}
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis limiter test")
	}
	ctx := context.Background()
	l, err := NewRedisLimiter(ctx, logger.Nop(), addr, 2, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLimiter: %v", err)
	}
	key := Key("test", uuid.NewString())
	t.Cleanup(func() { _ = l.Reset(ctx, key) })

	for i := 0; i < 2; i++ {
		if res, err := l.Allow(ctx, key); err != nil || !res.Allowed {
			t.Fatalf("attempt %d: res=%+v err=%v", i, res, err)
		}
	}
	if res, _ := l.Allow(ctx, key); res.Allowed {
		t.Fatalf("third attempt should be blocked")
	}
}
