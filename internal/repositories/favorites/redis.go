package favorites

import (
	"context"
	"log/slog"
	"slices"
	"strconv"

	"github.com/KirkDiggler/pokestory-api/internal/errors"
	redisclient "github.com/KirkDiggler/pokestory-api/internal/redis"
)

const (
	// Key pattern: favorites:{player_id}
	favoritesKeyPrefix = "favorites:"

	errPlayerIDEmpty  = "player ID cannot be empty"
	errSpeciesInvalid = "species ID must be positive"
)

// RedisConfig contains configuration for the Redis favorites repository
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

// NewRedis creates a new Redis-backed favorites repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func favoritesKey(playerID string) string {
	return favoritesKeyPrefix + playerID
}

func validate(playerID string, speciesID int) error {
	if playerID == "" {
		return errors.InvalidArgument(errPlayerIDEmpty)
	}
	if speciesID <= 0 {
		return errors.InvalidArgument(errSpeciesInvalid)
	}
	return nil
}

func (r *redisRepository) Add(ctx context.Context, input AddInput) (*AddOutput, error) {
	if err := validate(input.PlayerID, input.SpeciesID); err != nil {
		return nil, err
	}

	added, err := r.client.SAdd(ctx, favoritesKey(input.PlayerID), strconv.Itoa(input.SpeciesID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to add favorite")
	}

	return &AddOutput{Added: added > 0}, nil
}

func (r *redisRepository) Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error) {
	if err := validate(input.PlayerID, input.SpeciesID); err != nil {
		return nil, err
	}

	removed, err := r.client.SRem(ctx, favoritesKey(input.PlayerID), strconv.Itoa(input.SpeciesID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to remove favorite")
	}

	return &RemoveOutput{Removed: removed > 0}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	members, err := r.client.SMembers(ctx, favoritesKey(input.PlayerID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list favorites")
	}

	ids := make([]int, 0, len(members))
	for _, member := range members {
		id, err := strconv.Atoi(member)
		if err != nil {
			// Skip bad members rather than fail the whole list
			slog.WarnContext(ctx, "skipping unparseable favorite",
				"player_id", input.PlayerID,
				"member", member)
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return &ListOutput{SpeciesIDs: ids}, nil
}
