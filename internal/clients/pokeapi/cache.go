package pokeapi

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokestory-api/internal/errors"
	redisclient "github.com/KirkDiggler/pokestory-api/internal/redis"
)

// DefaultCacheTTL keeps catalog responses for a day; PokéAPI data is effectively static
const DefaultCacheTTL = 24 * time.Hour

const cacheKeyPrefix = "pokeapi:"

// Cache stores raw response bodies keyed by request URL.
// A miss is reported as (nil, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type redisCache struct {
	client redisclient.Client
	ttl    time.Duration
}

// RedisCacheConfig configures the Redis-backed response cache
type RedisCacheConfig struct {
	Client redisclient.Client
	TTL    time.Duration
}

// Validate ensures all required dependencies are provided
func (c *RedisCacheConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

// NewRedisCache creates a Cache on top of Redis
func NewRedisCache(cfg *RedisCacheConfig) (Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &redisCache{client: cfg.Client, ttl: ttl}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read cache")
	}
	return data, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, cacheKeyPrefix+key, value, c.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to write cache")
	}
	return nil
}
