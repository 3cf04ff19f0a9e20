// Package savedstories exposes a player's archive of finished playthroughs
package savedstories

//go:generate mockgen -destination=mock/mock_service.go -package=savedstoriesmock github.com/KirkDiggler/pokestory-api/internal/orchestrators/savedstories Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/pokestory-api/internal/errors"
	savedstoriesrepo "github.com/KirkDiggler/pokestory-api/internal/repositories/savedstories"
)

// MaxListLimit caps a single page of saved stories
const MaxListLimit = 100

// Service defines the interface for saved story operations
type Service interface {
	// List returns the player's stories, newest first
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
	// Delete removes a story; deleting a missing story reports Deleted=false
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// Config holds the dependencies for the saved stories orchestrator
type Config struct {
	Repository savedstoriesrepo.Repository
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}

	return vb.Build()
}

type orchestrator struct {
	repo savedstoriesrepo.Repository
}

// NewOrchestrator creates a new saved stories orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{repo: cfg.Repository}, nil
}

func (o *orchestrator) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRange("limit", input.Limit, 0, MaxListLimit, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = MaxListLimit
	}

	out, err := o.repo.ListByPlayer(ctx, savedstoriesrepo.ListByPlayerInput{
		PlayerID: input.PlayerID,
		Limit:    limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list saved stories")
	}

	return &ListOutput{Stories: out.Stories}, nil
}

func (o *orchestrator) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("story_id", input.StoryID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.repo.Delete(ctx, savedstoriesrepo.DeleteInput{
		PlayerID: input.PlayerID,
		StoryID:  input.StoryID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete saved story")
	}

	if out.Deleted {
		slog.InfoContext(ctx, "saved story deleted",
			"player_id", input.PlayerID,
			"story_id", input.StoryID)
	}

	return &DeleteOutput{Deleted: out.Deleted}, nil
}
