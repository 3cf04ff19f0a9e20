package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis every repository depends on.
// redis.UniversalClient satisfies it, and so does a miniredis-backed client.
type Client interface {
	redis.UniversalClient
}
