package savedstories

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	redisclient "github.com/KirkDiggler/pokestory-api/internal/redis"
)

const (
	// Key patterns:
	//   saved_story:{story_id}          story JSON
	//   saved_story:player:{player_id}  sorted set of story IDs scored by save time
	storyKeyPrefix  = "saved_story:"
	playerKeyPrefix = "saved_story:player:"

	errStoryNil      = "story cannot be nil"
	errStoryIDEmpty  = "story ID cannot be empty"
	errPlayerIDEmpty = "player ID cannot be empty"
)

// RedisConfig contains configuration for the Redis saved story repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedis creates a new Redis-backed saved story repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func storyKey(id string) string {
	return storyKeyPrefix + id
}

func playerKey(playerID string) string {
	return playerKeyPrefix + playerID
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Story == nil {
		return nil, errors.InvalidArgument(errStoryNil)
	}
	if input.Story.ID == "" {
		return nil, errors.InvalidArgument(errStoryIDEmpty)
	}
	if input.Story.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	data, err := json.Marshal(input.Story)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal saved story")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, storyKey(input.Story.ID), data, 0)
	pipe.ZAdd(ctx, playerKey(input.Story.PlayerID), redis.Z{
		Score:  float64(input.Story.SavedAt.UnixMilli()),
		Member: input.Story.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save story")
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	ids, err := r.client.ZRevRange(ctx, playerKey(input.PlayerID), 0, stop).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list saved story IDs")
	}
	if len(ids) == 0 {
		return &ListByPlayerOutput{Stories: []*entities.SavedStory{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = storyKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load saved stories")
	}

	stories := make([]*entities.SavedStory, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Index points at a story that no longer exists
			slog.WarnContext(ctx, "saved story missing from index",
				"player_id", input.PlayerID,
				"story_id", ids[i])
			continue
		}

		var story entities.SavedStory
		if err := json.Unmarshal([]byte(raw), &story); err != nil {
			slog.WarnContext(ctx, "skipping corrupt saved story",
				"player_id", input.PlayerID,
				"story_id", ids[i],
				"error", err)
			continue
		}
		stories = append(stories, &story)
	}

	return &ListByPlayerOutput{Stories: stories}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.StoryID == "" {
		return nil, errors.InvalidArgument(errStoryIDEmpty)
	}

	// Only the owning player's index can release a story
	err := r.client.ZScore(ctx, playerKey(input.PlayerID), input.StoryID).Err()
	if err == redis.Nil {
		return &DeleteOutput{Deleted: false}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up saved story")
	}

	pipe := r.client.TxPipeline()
	pipe.ZRem(ctx, playerKey(input.PlayerID), input.StoryID)
	pipe.Del(ctx, storyKey(input.StoryID))

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete saved story")
	}

	return &DeleteOutput{Deleted: true}, nil
}
