package playthrough

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	redisclient "github.com/KirkDiggler/pokestory-api/internal/redis"
)

// Key pattern: playthrough:{story_id}
const storyKeyPrefix = "playthrough:"

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	// TTL defaults to DefaultTTL
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.TTL < 0 {
		return errors.InvalidArgument("ttl cannot be negative")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
}

// NewRedis creates a Redis repository for story sessions
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		ttl:    ttl,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func storyKey(id string) string {
	return storyKeyPrefix + id
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument(errStateNil)
	}
	if input.State.ID == "" {
		return nil, errors.InvalidArgument(errStateIDNil)
	}

	data, err := encodeState(input.State)
	if err != nil {
		return nil, err
	}

	if err := r.client.Set(ctx, storyKey(input.State.ID), data, r.ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store story in Redis")
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errStateIDNil)
	}

	data, err := r.client.Get(ctx, storyKey(input.ID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("story %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get story from Redis")
	}

	state, err := decodeState(data)
	if err != nil {
		return nil, err
	}

	return &GetOutput{State: state}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errStateIDNil)
	}

	if err := r.client.Del(ctx, storyKey(input.ID)).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete story from Redis")
	}

	return &DeleteOutput{}, nil
}

func encodeState(state *entities.StoryState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal story")
	}
	return data, nil
}

func decodeState(data []byte) (*entities.StoryState, error) {
	var state entities.StoryState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "stored story is corrupt")
	}
	return &state, nil
}
