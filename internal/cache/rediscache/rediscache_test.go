package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetSetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "")
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	b, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), b)

	require.NoError(t, c.Del(ctx, "k"))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Del(ctx))
}

func TestRedisCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "")

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "shipments:group_ids", []byte(`["G1"]`), time.Second))
	mr.FastForward(2 * time.Second)

	_, ok, err := c.Get(ctx, "shipments:group_ids")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_ErrorsWrapped(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "")
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis get")
}

func TestRateLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiter(mr.Addr())
	t.Cleanup(func() { _ = rl.Close() })

	ctx := context.Background()
	ok, n, err := rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	ok, n, _ = rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.True(t, ok)
	require.Equal(t, int64(2), n)

	ok, n, _ = rl.Allow(ctx, "rl:test", 2, time.Minute)
	require.False(t, ok)
	require.Equal(t, int64(3), n)
}

func TestTenantMinuteWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 7, 30, 0, time.UTC)
	w := TenantMinuteWindow("acme", now)

	require.Equal(t, "rl:bulk_import:acme:202610190807", w.Key)
	require.Equal(t, time.Date(2026, 10, 19, 8, 7, 0, 0, time.UTC), w.Start)
	require.Equal(t, 30*time.Second, w.Remaining(now))
	require.Equal(t, 40*time.Second, w.TTL(now))
	require.Zero(t, w.Remaining(now.Add(time.Hour)))

	next := TenantMinuteWindow("acme", w.End)
	require.NotEqual(t, w.Key, next.Key)
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiter(mr.Addr())
	t.Cleanup(func() { _ = rl.Close() })

	ctx := context.Background()
	now := time.Date(2026, 10, 19, 8, 7, 50, 0, time.UTC)
	w := TenantMinuteWindow("acme", now)

	ok, _, err := rl.Allow(ctx, w.Key, 1, w.TTL(now))
	require.NoError(t, err)
	require.True(t, ok)
	ok, _, _ = rl.Allow(ctx, w.Key, 1, w.TTL(now))
	require.False(t, ok)

	mr.FastForward(w.TTL(now) + time.Second)
	require.False(t, mr.Exists(w.Key))
}
