// Package favorites implements the player's favorite species list
package favorites

//go:generate mockgen -destination=mock/mock_service.go -package=favoritesmock github.com/KirkDiggler/pokestory-api/internal/orchestrators/favorites Service

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/pokestory-api/internal/clients/pokeapi"
	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	favoritesrepo "github.com/KirkDiggler/pokestory-api/internal/repositories/favorites"
)

// detailFetchLimit bounds concurrent species lookups
const detailFetchLimit = 4

// Service defines the interface for favorite operations
type Service interface {
	// Toggle adds the species when absent and removes it when present
	Toggle(ctx context.Context, input *ToggleInput) (*ToggleOutput, error)
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// Config holds the dependencies for the favorites orchestrator
type Config struct {
	Repository favoritesrepo.Repository
	Species    pokeapi.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Species == nil {
		vb.RequiredField("Species")
	}

	return vb.Build()
}

type orchestrator struct {
	repo    favoritesrepo.Repository
	species pokeapi.Client
}

// NewOrchestrator creates a new favorites orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		repo:    cfg.Repository,
		species: cfg.Species,
	}, nil
}

func (o *orchestrator) Toggle(ctx context.Context, input *ToggleInput) (*ToggleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	if input.SpeciesID <= 0 {
		vb.Field("species_id", "must be positive")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	removed, err := o.repo.Remove(ctx, favoritesrepo.RemoveInput{
		PlayerID:  input.PlayerID,
		SpeciesID: input.SpeciesID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to remove favorite")
	}
	if removed.Removed {
		return &ToggleOutput{Favorited: false}, nil
	}

	if _, err := o.repo.Add(ctx, favoritesrepo.AddInput{
		PlayerID:  input.PlayerID,
		SpeciesID: input.SpeciesID,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to add favorite")
	}

	return &ToggleOutput{Favorited: true}, nil
}

func (o *orchestrator) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	out, err := o.repo.List(ctx, favoritesrepo.ListInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorites")
	}

	output := &ListOutput{SpeciesIDs: out.SpeciesIDs}
	if !input.IncludeDetails || len(out.SpeciesIDs) == 0 {
		return output, nil
	}

	language := input.Language
	if language == "" {
		language = entities.LanguageEnglish
	}

	details := make([]*entities.Pokemon, len(out.SpeciesIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchLimit)
	for i, id := range out.SpeciesIDs {
		g.Go(func() error {
			pokemon, err := o.species.GetPokemon(gctx, strconv.Itoa(id), language)
			if err != nil {
				if errors.IsNotFound(err) {
					slog.WarnContext(gctx, "favorite species not found",
						"player_id", input.PlayerID,
						"species_id", id)
					return nil
				}
				return err
			}
			details[i] = pokemon
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to resolve favorites")
	}

	for _, p := range details {
		if p != nil {
			output.Pokemon = append(output.Pokemon, p)
		}
	}

	return output, nil
}
