package roster

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
	rosterKeyPrefix = "roster:"
	scanBatchSize   = 100

	errPlayerIDEmpty = "player ID cannot be empty"
	errRosterNil     = "roster cannot be nil"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis roster repository
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

// NewRedis creates a new Redis-backed roster repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func rosterKey(playerID string) string {
	return rosterKeyPrefix + playerID
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	result, err := r.client.Get(ctx, rosterKey(input.PlayerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("roster for player %s not found", input.PlayerID)
		}
		return nil, errors.Wrapf(err, "failed to get roster")
	}

	roster, err := decodeRoster([]byte(result))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "stored roster is corrupt").
			WithMeta("player_id", input.PlayerID)
	}

	return &GetOutput{Roster: roster}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.Roster == nil {
		return nil, errors.InvalidArgument(errRosterNil)
	}

	data, err := json.Marshal(input.Roster)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal roster")
	}

	// A single SET replaces the whole blob, so readers never see a partial roster
	if err := r.client.Set(ctx, rosterKey(input.PlayerID), data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save roster")
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	if err := r.client.Del(ctx, rosterKey(input.PlayerID)).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete roster")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) Repair(ctx context.Context, input RepairInput) (*RepairOutput, error) {
	output := &RepairOutput{}

	iter := r.client.Scan(ctx, 0, rosterKeyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		output.Checked++

		data, err := r.client.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrapf(err, "failed to read %s", key)
		}

		if _, err := decodeRoster([]byte(data)); err == nil {
			continue
		}

		slog.WarnContext(ctx, "corrupt roster found",
			"key", key,
			"dry_run", input.DryRun)
		output.CorruptKeys = append(output.CorruptKeys, key)

		if !input.DryRun {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return nil, errors.Wrapf(err, "failed to delete %s", key)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan rosters")
	}

	return output, nil
}

// decodeRoster rejects blobs that parse as JSON but break roster or
// companion invariants
func decodeRoster(data []byte) (*entities.Roster, error) {
	var roster entities.Roster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, err
	}

	vb := errors.NewValidationBuilder()
	if roster.Len() > entities.MaxRosterSize {
		vb.Fieldf("companions", "holds %d companions, limit is %d", roster.Len(), entities.MaxRosterSize)
	}
	for i, c := range roster.Companions {
		if c == nil || c.ID == "" {
			vb.Fieldf("companions", "entry %d has no ID", i)
			continue
		}
		for _, v := range c.Violations() {
			vb.Fieldf("companions", "entry %d: %s", i, v)
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if roster.Companions == nil {
		roster.Companions = []*entities.Companion{}
	}
	return &roster, nil
}
