package rediscache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements cache.BytesCache. Keys are stored under namespace, so several
// tenants or deployments can share one Redis.
type RedisCache struct {
	c         *redis.Client
	namespace string
}

func New(addr, namespace string) *RedisCache {
	return &RedisCache{
		c:         redis.NewClient(&redis.Options{Addr: addr}),
		namespace: namespace,
	}
}

// Namespace builds the key prefix for one tenant.
func Namespace(tenantID string) string {
	if tenantID == "" {
		return "shipbox"
	}
	return "shipbox:" + tenantID
}

func (r *RedisCache) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.c.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, errors.Wrap(err, "redis get")
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.Wrap(r.c.Set(ctx, r.key(key), value, ttl).Err(), "redis set")
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return errors.Wrap(r.c.Del(ctx, full...).Err(), "redis del")
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return errors.Wrap(r.c.Ping(ctx).Err(), "redis ping")
}

func (r *RedisCache) Close() error {
	return r.c.Close()
}
