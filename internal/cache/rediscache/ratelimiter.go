package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// keyGrace keeps a window's counter alive a little past its end, so late increments
// from a slow clock still land in an expiring key.
const keyGrace = 10 * time.Second

// ImportWindow is the fixed one-minute bucket a tenant's bulk import batches are counted in.
type ImportWindow struct {
	Key   string
	Start time.Time
	End   time.Time
}

// TenantMinuteWindow returns the window containing now.
func TenantMinuteWindow(tenantID string, now time.Time) ImportWindow {
	start := now.UTC().Truncate(time.Minute)
	return ImportWindow{
		Key:   fmt.Sprintf("rl:bulk_import:%s:%s", tenantID, start.Format("200601021504")),
		Start: start,
		End:   start.Add(time.Minute),
	}
}

// Remaining is the time until the window closes; never negative.
func (w ImportWindow) Remaining(now time.Time) time.Duration {
	if d := w.End.Sub(now); d > 0 {
		return d
	}
	return 0
}

// TTL is how long the window's counter must outlive now.
func (w ImportWindow) TTL(now time.Time) time.Duration {
	return w.Remaining(now) + keyGrace
}

// RateLimiter counts hits per key in Redis with INCR, expiring the key with its window.
type RateLimiter struct {
	c *redis.Client
}

func NewRateLimiter(addr string) *RateLimiter {
	return &RateLimiter{c: redis.NewClient(&redis.Options{Addr: addr})}
}

// Allow counts one hit on key and reports whether the count is within limit.
// Denied hits are counted too, so a window never reopens before it expires.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int64, ttl time.Duration) (bool, int64, error) {
	var incr *redis.IntCmd
	_, err := rl.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return false, 0, errors.Wrap(err, "redis ratelimit")
	}
	n := incr.Val()
	return n <= limit, n, nil
}

func (rl *RateLimiter) Close() error {
	return rl.c.Close()
}
