// Package testutils provides fixtures and Redis helpers shared by tests
package testutils

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokestory-api/internal/redis"
)

// CreateTestRedisServer starts miniredis and returns both the server and a client.
// Tests that need to seed raw keys or fast-forward TTLs use the server handle.
func CreateTestRedisServer(t *testing.T) (*miniredis.Miniredis, redis.Client) {
	mr := miniredis.RunT(t)

	client, err := redis.Open(context.Background(), &redis.Config{URL: "redis://" + mr.Addr()})
	require.NoError(t, err, "failed to open redis client")

	t.Cleanup(func() {
		_ = client.Close()
	})

	return mr, client
}
