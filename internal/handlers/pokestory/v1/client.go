package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

// Client calls PokeStoryService with typed requests. Errors come back as
// *errors.Error so callers can use the errors.Is* helpers.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an open connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, req any) (*Resp, error) {
	in, err := Encode(req)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), in, out); err != nil {
		return nil, errors.FromGRPCError(err)
	}

	resp := new(Resp)
	if err := Decode(out, resp); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "unexpected response shape")
	}
	return resp, nil
}

// ListRoster returns the player's companions
func (c *Client) ListRoster(ctx context.Context, req *PlayerRequest) (*RosterResponse, error) {
	return invoke[RosterResponse](ctx, c, MethodListRoster, req)
}

// AdoptCompanion adopts a species
func (c *Client) AdoptCompanion(ctx context.Context, req *AdoptCompanionRequest) (*AdoptCompanionResponse, error) {
	return invoke[AdoptCompanionResponse](ctx, c, MethodAdoptCompanion, req)
}

// ReleaseCompanion removes a companion
func (c *Client) ReleaseCompanion(ctx context.Context, req *CompanionRequest) (*ReleaseCompanionResponse, error) {
	return invoke[ReleaseCompanionResponse](ctx, c, MethodReleaseCompanion, req)
}

// RenameCompanion changes a nickname
func (c *Client) RenameCompanion(ctx context.Context, req *RenameCompanionRequest) (*CompanionResponse, error) {
	return invoke[CompanionResponse](ctx, c, MethodRenameCompanion, req)
}

// StartStory begins a playthrough
func (c *Client) StartStory(ctx context.Context, req *StartStoryRequest) (*StoryResponse, error) {
	return invoke[StoryResponse](ctx, c, MethodStartStory, req)
}

// ChooseOption applies a choice
func (c *Client) ChooseOption(ctx context.Context, req *ChooseOptionRequest) (*StoryResponse, error) {
	return invoke[StoryResponse](ctx, c, MethodChooseOption, req)
}

// GetStory reads a playthrough
func (c *Client) GetStory(ctx context.Context, req *GetStoryRequest) (*StoryResponse, error) {
	return invoke[StoryResponse](ctx, c, MethodGetStory, req)
}

// ListSavedStories reads the archive
func (c *Client) ListSavedStories(ctx context.Context, req *ListSavedStoriesRequest) (*SavedStoriesResponse, error) {
	return invoke[SavedStoriesResponse](ctx, c, MethodListSavedStories, req)
}

// DeleteSavedStory removes an archived playthrough
func (c *Client) DeleteSavedStory(ctx context.Context, req *DeleteSavedStoryRequest) (*DeletedResponse, error) {
	return invoke[DeletedResponse](ctx, c, MethodDeleteSavedStory, req)
}

// ListPokemon pages the catalog
func (c *Client) ListPokemon(ctx context.Context, req *ListPokemonRequest) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c, MethodListPokemon, req)
}

// GetPokemon reads one species
func (c *Client) GetPokemon(ctx context.Context, req *GetPokemonRequest) (*PokemonResponse, error) {
	return invoke[PokemonResponse](ctx, c, MethodGetPokemon, req)
}

// ListRegions lists regions
func (c *Client) ListRegions(ctx context.Context) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c, MethodListRegions, &EmptyRequest{})
}

// ListLocations lists the locations of regions
func (c *Client) ListLocations(ctx context.Context, req *RegionsRequest) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c, MethodListLocations, req)
}

// ListGenerations lists the generation table
func (c *Client) ListGenerations(ctx context.Context) (*GenerationsResponse, error) {
	return invoke[GenerationsResponse](ctx, c, MethodListGenerations, &EmptyRequest{})
}

// ListProtagonistCandidates draws starting candidates
func (c *Client) ListProtagonistCandidates(ctx context.Context, req *GenerationsRequest) (*ElementsResponse, error) {
	return invoke[ElementsResponse](ctx, c, MethodListProtagonistCandidates, req)
}

// ToggleFavorite flips a favorite
func (c *Client) ToggleFavorite(ctx context.Context, req *ToggleFavoriteRequest) (*ToggleFavoriteResponse, error) {
	return invoke[ToggleFavoriteResponse](ctx, c, MethodToggleFavorite, req)
}

// ListFavorites reads favorites
func (c *Client) ListFavorites(ctx context.Context, req *ListFavoritesRequest) (*FavoritesResponse, error) {
	return invoke[FavoritesResponse](ctx, c, MethodListFavorites, req)
}
