package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps payloads in Redis under a key prefix.
// Expiry is delegated to Redis.
type RedisCache struct {
	redis      *redis.Client
	prefix     string
	ownsClient bool
}

// NewRedis creates a Redis-backed cache. The caller keeps ownership of the client.
func NewRedis(redisClient *redis.Client, opts ...Option) *RedisCache {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &RedisCache{
		redis:  redisClient,
		prefix: o.prefix,
	}
}

// Get retrieves the payload stored under key.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.redis.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.WithLabelValues("redis").Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("redis", "get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	CacheHits.WithLabelValues("redis").Inc()
	return data, nil
}

// Put stores data under key with ttl as the Redis expiry.
func (r *RedisCache) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.redis.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("redis", "put").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	CacheStoredBytes.WithLabelValues("redis").Add(float64(len(data)))
	return nil
}

// Clear deletes every key under the prefix.
func (r *RedisCache) Clear(ctx context.Context) error {
	iter := r.redis.Scan(ctx, 0, r.prefix+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.redis.Del(ctx, batch...).Err(); err != nil {
				CacheErrors.WithLabelValues("redis", "clear").Inc()
				return fmt.Errorf("redis del: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		CacheErrors.WithLabelValues("redis", "clear").Inc()
		return fmt.Errorf("redis scan: %w", err)
	}

	if len(batch) > 0 {
		if err := r.redis.Del(ctx, batch...).Err(); err != nil {
			CacheErrors.WithLabelValues("redis", "clear").Inc()
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

// Close closes the Redis client only when the cache created it (see Open).
func (r *RedisCache) Close() error {
	if !r.ownsClient {
		return nil
	}
	return r.redis.Close()
}
