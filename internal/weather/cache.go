package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores readings by key. A miss is (Reading{}, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (Reading, bool, error)
	Set(ctx context.Context, key string, r Reading, ttl time.Duration) error
}

// RedisCache is a Cache backed by Redis string keys holding JSON.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects to addr and pings it. It returns (nil, nil) when
// addr is empty so callers can treat the cache as optional.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisCache{rdb: rdb}, nil
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient(rdb *redis.Client) *RedisCache { return &RedisCache{rdb: rdb} }

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (Reading, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Reading{}, false, nil
	}
	if err != nil {
		return Reading{}, false, err
	}
	var r Reading
	if err := json.Unmarshal(b, &r); err != nil {
		return Reading{}, false, err
	}
	return r, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, r Reading, ttl time.Duration) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error { return c.rdb.Close() }
