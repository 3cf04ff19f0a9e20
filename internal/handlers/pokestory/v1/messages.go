package v1

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

// PlayerRequest identifies the calling player
type PlayerRequest struct {
	PlayerID string `json:"player_id"`
}

// RosterResponse carries a player's companions
type RosterResponse struct {
	Companions []*entities.Companion `json:"companions"`
	Capacity   int                   `json:"capacity"`
}

// AdoptCompanionRequest adopts a species onto the roster
type AdoptCompanionRequest struct {
	PlayerID string `json:"player_id"`
	Species  string `json:"species"`
	Nickname string `json:"nickname,omitempty"`
}

// AdoptCompanionResponse reports whether the roster had room
type AdoptCompanionResponse struct {
	Adopted    bool                  `json:"adopted"`
	Companion  *entities.Companion   `json:"companion,omitempty"`
	Companions []*entities.Companion `json:"companions"`
}

// CompanionRequest addresses one companion
type CompanionRequest struct {
	PlayerID    string `json:"player_id"`
	CompanionID string `json:"companion_id"`
}

// ReleaseCompanionResponse reports the roster after a release
type ReleaseCompanionResponse struct {
	Released   bool                  `json:"released"`
	Companions []*entities.Companion `json:"companions"`
}

// RenameCompanionRequest changes a nickname
type RenameCompanionRequest struct {
	PlayerID    string `json:"player_id"`
	CompanionID string `json:"companion_id"`
	Nickname    string `json:"nickname"`
}

// CompanionResponse carries one companion
type CompanionResponse struct {
	Companion *entities.Companion `json:"companion"`
}

// StartStoryRequest begins a playthrough
type StartStoryRequest struct {
	PlayerID    string            `json:"player_id"`
	CompanionID string            `json:"companion_id,omitempty"`
	Species     string            `json:"species,omitempty"`
	Nickname    string            `json:"nickname,omitempty"`
	Language    entities.Language `json:"language,omitempty"`
	Generations []int             `json:"generations,omitempty"`
}

// StoryResponse carries a playthrough snapshot
type StoryResponse struct {
	Story        *entities.StoryState `json:"story"`
	Adopted      bool                 `json:"adopted,omitempty"`
	LeveledUp    int                  `json:"leveled_up,omitempty"`
	SavedStoryID string               `json:"saved_story_id,omitempty"`
	// Resumed is set when the call finished an earlier, interrupted choice
	// instead of applying a new one
	Resumed bool `json:"resumed,omitempty"`
}

// ChooseOptionRequest picks one of the current options
type ChooseOptionRequest struct {
	PlayerID    string `json:"player_id"`
	SessionID   string `json:"session_id"`
	OptionIndex int    `json:"option_index"`
}

// GetStoryRequest reads a playthrough
type GetStoryRequest struct {
	PlayerID  string `json:"player_id"`
	SessionID string `json:"session_id"`
}

// ListSavedStoriesRequest pages through the archive
type ListSavedStoriesRequest struct {
	PlayerID string `json:"player_id"`
	Limit    int    `json:"limit,omitempty"`
}

// SavedStoriesResponse carries archived playthroughs
type SavedStoriesResponse struct {
	Stories []*entities.SavedStory `json:"stories"`
}

// DeleteSavedStoryRequest removes an archived playthrough
type DeleteSavedStoryRequest struct {
	PlayerID string `json:"player_id"`
	StoryID  string `json:"story_id"`
}

// DeletedResponse reports whether anything was removed
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

// ListPokemonRequest pages the catalog, or lists regional dexes when
// Regions is set.
type ListPokemonRequest struct {
	Page    int      `json:"page,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Regions []string `json:"regions,omitempty"`
}

// ListItemsResponse carries named references
type ListItemsResponse struct {
	Items []entities.ListItem `json:"items"`
}

// GetPokemonRequest reads one species
type GetPokemonRequest struct {
	IDOrName string            `json:"id_or_name"`
	Language entities.Language `json:"language,omitempty"`
}

// PokemonResponse carries one species
type PokemonResponse struct {
	Pokemon *entities.Pokemon `json:"pokemon"`
}

// RegionsRequest selects regions by name
type RegionsRequest struct {
	Regions []string `json:"regions"`
}

// GenerationsResponse carries the generation table
type GenerationsResponse struct {
	Generations []entities.Generation `json:"generations"`
}

// GenerationsRequest restricts draws to generations
type GenerationsRequest struct {
	Generations []int `json:"generations,omitempty"`
}

// ElementsResponse carries story elements
type ElementsResponse struct {
	Elements []entities.Element `json:"elements"`
}

// ToggleFavoriteRequest flips one favorite
type ToggleFavoriteRequest struct {
	PlayerID  string `json:"player_id"`
	SpeciesID int    `json:"species_id"`
}

// ToggleFavoriteResponse reports the state after the toggle
type ToggleFavoriteResponse struct {
	Favorited bool `json:"favorited"`
}

// ListFavoritesRequest reads favorites
type ListFavoritesRequest struct {
	PlayerID       string            `json:"player_id"`
	IncludeDetails bool              `json:"include_details,omitempty"`
	Language       entities.Language `json:"language,omitempty"`
}

// FavoritesResponse carries favorites
type FavoritesResponse struct {
	SpeciesIDs []int               `json:"species_ids"`
	Pokemon    []*entities.Pokemon `json:"pokemon,omitempty"`
}

// EmptyRequest is sent by methods without parameters
type EmptyRequest struct{}

// Decode fills v from a Struct message
func Decode(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "request is not valid JSON")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "request does not match the expected shape")
	}
	return nil
}

// Encode converts v into a Struct message
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to encode response")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to encode response")
	}
	return out, nil
}
