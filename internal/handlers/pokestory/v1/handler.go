package v1

import (
	"context"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/pokestory-api/internal/clients/pokeapi"
	"github.com/KirkDiggler/pokestory-api/internal/engine"
	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/favorites"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/savedstories"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/story"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	Roster       roster.Service
	Story        story.Service
	Favorites    favorites.Service
	SavedStories savedstories.Service
	Species      pokeapi.Client
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Roster == nil {
		vb.RequiredField("Roster")
	}
	if c.Story == nil {
		vb.RequiredField("Story")
	}
	if c.Favorites == nil {
		vb.RequiredField("Favorites")
	}
	if c.SavedStories == nil {
		vb.RequiredField("SavedStories")
	}
	if c.Species == nil {
		vb.RequiredField("Species")
	}
	return vb.Build()
}

// Handler implements PokeStoryServiceServer
type Handler struct {
	roster       roster.Service
	story        story.Service
	favorites    favorites.Service
	savedStories savedstories.Service
	species      pokeapi.Client
}

var _ PokeStoryServiceServer = (*Handler)(nil)

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		roster:       cfg.Roster,
		story:        cfg.Story,
		favorites:    cfg.Favorites,
		savedStories: cfg.SavedStories,
		species:      cfg.Species,
	}, nil
}

// serve decodes the request, runs fn and encodes its result. Every error
// leaves through ToGRPCError.
func serve[Req any](ctx context.Context, in *structpb.Struct, fn func(context.Context, *Req) (any, error)) (*structpb.Struct, error) {
	req := new(Req)
	if err := Decode(in, req); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp, err := fn(ctx, req)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := Encode(resp)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return out, nil
}

// ListRoster returns the player's companions
func (h *Handler) ListRoster(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *PlayerRequest) (any, error) {
		out, err := h.roster.Load(ctx, &roster.LoadInput{PlayerID: req.PlayerID})
		if err != nil {
			return nil, err
		}
		return &RosterResponse{Companions: out.Roster.Companions, Capacity: entities.MaxRosterSize}, nil
	})
}

// AdoptCompanion creates a level 1 companion of the species and adds it
// to the roster when there is room.
func (h *Handler) AdoptCompanion(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *AdoptCompanionRequest) (any, error) {
		species := strings.ToLower(strings.TrimSpace(req.Species))
		if species == "" {
			return nil, errors.InvalidArgument("species is required")
		}

		details, err := h.species.GetPokemon(ctx, species, entities.LanguageEnglish)
		if err != nil {
			return nil, err
		}

		out, err := h.roster.Adopt(ctx, &roster.AdoptInput{
			PlayerID: req.PlayerID,
			Companion: engine.NewCompanion(engine.NewCompanionInput{
				Species:   details.Name,
				Nickname:  strings.TrimSpace(req.Nickname),
				SpriteURL: details.SpriteURL,
			}),
		})
		if err != nil {
			return nil, err
		}

		return &AdoptCompanionResponse{
			Adopted:    out.Adopted,
			Companion:  out.Companion,
			Companions: out.Roster.Companions,
		}, nil
	})
}

// ReleaseCompanion removes a companion from the roster
func (h *Handler) ReleaseCompanion(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *CompanionRequest) (any, error) {
		out, err := h.roster.Release(ctx, &roster.ReleaseInput{
			PlayerID:    req.PlayerID,
			CompanionID: req.CompanionID,
		})
		if err != nil {
			return nil, err
		}
		return &ReleaseCompanionResponse{Released: out.Released, Companions: out.Roster.Companions}, nil
	})
}

// RenameCompanion changes a companion's nickname
func (h *Handler) RenameCompanion(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *RenameCompanionRequest) (any, error) {
		out, err := h.roster.Rename(ctx, &roster.RenameInput{
			PlayerID:    req.PlayerID,
			CompanionID: req.CompanionID,
			Nickname:    req.Nickname,
		})
		if err != nil {
			return nil, err
		}
		return &CompanionResponse{Companion: out.Companion}, nil
	})
}

// StartStory begins a playthrough
func (h *Handler) StartStory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *StartStoryRequest) (any, error) {
		out, err := h.story.Start(ctx, &story.StartInput{
			PlayerID:    req.PlayerID,
			CompanionID: req.CompanionID,
			Species:     req.Species,
			Nickname:    req.Nickname,
			Language:    req.Language,
			Generations: req.Generations,
		})
		if err != nil {
			return nil, err
		}
		return &StoryResponse{Story: out.State, Adopted: out.Adopted}, nil
	})
}

// ChooseOption applies a choice and advances the playthrough
func (h *Handler) ChooseOption(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *ChooseOptionRequest) (any, error) {
		out, err := h.story.Choose(ctx, &story.ChooseInput{
			PlayerID:    req.PlayerID,
			SessionID:   req.SessionID,
			OptionIndex: req.OptionIndex,
		})
		if err != nil {
			return nil, err
		}
		return &StoryResponse{
			Story:        out.State,
			LeveledUp:    out.LeveledUp,
			SavedStoryID: out.SavedStoryID,
			Resumed:      out.Resumed,
		}, nil
	})
}

// GetStory returns a playthrough snapshot
func (h *Handler) GetStory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *GetStoryRequest) (any, error) {
		out, err := h.story.Get(ctx, &story.GetInput{PlayerID: req.PlayerID, SessionID: req.SessionID})
		if err != nil {
			return nil, err
		}
		return &StoryResponse{Story: out.State}, nil
	})
}

// ListSavedStories returns archived playthroughs, newest first
func (h *Handler) ListSavedStories(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *ListSavedStoriesRequest) (any, error) {
		out, err := h.savedStories.List(ctx, &savedstories.ListInput{PlayerID: req.PlayerID, Limit: req.Limit})
		if err != nil {
			return nil, err
		}
		stories := out.Stories
		if stories == nil {
			stories = []*entities.SavedStory{}
		}
		return &SavedStoriesResponse{Stories: stories}, nil
	})
}

// DeleteSavedStory removes an archived playthrough
func (h *Handler) DeleteSavedStory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *DeleteSavedStoryRequest) (any, error) {
		out, err := h.savedStories.Delete(ctx, &savedstories.DeleteInput{PlayerID: req.PlayerID, StoryID: req.StoryID})
		if err != nil {
			return nil, err
		}
		return &DeletedResponse{Deleted: out.Deleted}, nil
	})
}

// ListPokemon pages the catalog or lists the union of regional dexes
func (h *Handler) ListPokemon(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *ListPokemonRequest) (any, error) {
		var (
			items []entities.ListItem
			err   error
		)
		if len(req.Regions) > 0 {
			items, err = h.species.ListPokemonByRegions(ctx, req.Regions)
		} else {
			page := req.Page
			if page < 1 {
				page = 1
			}
			items, err = h.species.ListPokemon(ctx, page, req.Limit)
		}
		if err != nil {
			return nil, err
		}
		return listItems(items), nil
	})
}

// GetPokemon returns one species
func (h *Handler) GetPokemon(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *GetPokemonRequest) (any, error) {
		idOrName := strings.ToLower(strings.TrimSpace(req.IDOrName))
		if idOrName == "" {
			return nil, errors.InvalidArgument("id_or_name is required")
		}
		language := req.Language
		if language == "" {
			language = entities.LanguageEnglish
		}

		pokemon, err := h.species.GetPokemon(ctx, idOrName, language)
		if err != nil {
			return nil, err
		}
		return &PokemonResponse{Pokemon: pokemon}, nil
	})
}

// ListRegions returns every region
func (h *Handler) ListRegions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, _ *EmptyRequest) (any, error) {
		items, err := h.species.ListRegions(ctx)
		if err != nil {
			return nil, err
		}
		return listItems(items), nil
	})
}

// ListLocations returns the locations of the given regions
func (h *Handler) ListLocations(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *RegionsRequest) (any, error) {
		if len(req.Regions) == 0 {
			return nil, errors.InvalidArgument("at least one region is required")
		}
		items, err := h.species.ListLocationsByRegions(ctx, req.Regions)
		if err != nil {
			return nil, err
		}
		return listItems(items), nil
	})
}

// ListGenerations returns the generation table
func (h *Handler) ListGenerations(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(_ context.Context, _ *EmptyRequest) (any, error) {
		return &GenerationsResponse{Generations: entities.Generations()}, nil
	})
}

// ListProtagonistCandidates draws single-type pokemon to start a story with
func (h *Handler) ListProtagonistCandidates(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *GenerationsRequest) (any, error) {
		elements, err := h.species.ProtagonistCandidates(ctx, req.Generations)
		if err != nil {
			return nil, err
		}
		if elements == nil {
			elements = []entities.Element{}
		}
		return &ElementsResponse{Elements: elements}, nil
	})
}

// ToggleFavorite flips a species in the player's favorites
func (h *Handler) ToggleFavorite(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *ToggleFavoriteRequest) (any, error) {
		out, err := h.favorites.Toggle(ctx, &favorites.ToggleInput{PlayerID: req.PlayerID, SpeciesID: req.SpeciesID})
		if err != nil {
			return nil, err
		}
		return &ToggleFavoriteResponse{Favorited: out.Favorited}, nil
	})
}

// ListFavorites returns the player's favorites
func (h *Handler) ListFavorites(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, in, func(ctx context.Context, req *ListFavoritesRequest) (any, error) {
		out, err := h.favorites.List(ctx, &favorites.ListInput{
			PlayerID:       req.PlayerID,
			IncludeDetails: req.IncludeDetails,
			Language:       req.Language,
		})
		if err != nil {
			return nil, err
		}
		ids := out.SpeciesIDs
		if ids == nil {
			ids = []int{}
		}
		return &FavoritesResponse{SpeciesIDs: ids, Pokemon: out.Pokemon}, nil
	})
}

func listItems(items []entities.ListItem) *ListItemsResponse {
	if items == nil {
		items = []entities.ListItem{}
	}
	return &ListItemsResponse{Items: items}
}
