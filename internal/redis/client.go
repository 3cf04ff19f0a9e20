// Package redis opens the connection shared by the roster, playthrough,
// favorites and saved-story repositories and the PokéAPI response cache.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

const defaultPingTimeout = 5 * time.Second

// Config selects and tunes the Redis instance
type Config struct {
	// URL is a redis:// or rediss:// URL, including the database number
	URL string
	// PoolSize overrides the go-redis default when positive
	PoolSize    int
	PingTimeout time.Duration
}

func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("url", c.URL, vb)
	if c.PoolSize < 0 {
		vb.Field("pool_size", "cannot be negative")
	}
	if c.PingTimeout < 0 {
		vb.Field("ping_timeout", "cannot be negative")
	}
	return vb.Build()
}

// Open parses the URL, connects and pings. The caller owns the returned
// client and must Close it.
func Open(ctx context.Context, cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("redis config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid redis url")
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	timeout := cfg.PingTimeout
	if timeout == 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis at "+opts.Addr+" is unreachable")
	}

	return client, nil
}
