// Package pokeapi is the read-only species and world data client backed by PokéAPI
package pokeapi

//go:generate mockgen -destination=mock/mock_client.go -package=pokeapimock github.com/KirkDiggler/pokestory-api/internal/clients/pokeapi Client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

const (
	// DefaultBaseURL is the public PokéAPI endpoint
	DefaultBaseURL = "https://pokeapi.co/api/v2"

	// DefaultPageSize matches the catalog grid
	DefaultPageSize = 30

	// TotalTypes is the number of elemental types PokéAPI numbers 1..18
	TotalTypes = 18

	// TotalLocations is the highest location ID random draws use
	TotalLocations = 836

	// ProtagonistCandidateCount is how many starters are offered
	ProtagonistCandidateCount = 4

	defaultTimeout    = 10 * time.Second
	maxResponseBytes  = 16 << 20
	fanOutConcurrency = 4

	noDescription = "No description available for this Pokémon."
)

// Client defines the interface for species and world data
type Client interface {
	// ListPokemon returns one page of the national catalog
	ListPokemon(ctx context.Context, page, limit int) ([]entities.ListItem, error)

	// GetPokemon fetches details and flavor text in language (English fallback)
	GetPokemon(ctx context.Context, idOrName string, language entities.Language) (*entities.Pokemon, error)

	// ListRegions returns every region
	ListRegions(ctx context.Context) ([]entities.ListItem, error)

	// ListPokemonByRegions merges the regional pokedexes, deduped by species and sorted by name.
	// URLs point at /pokemon/ rather than /pokemon-species/.
	ListPokemonByRegions(ctx context.Context, regions []string) ([]entities.ListItem, error)

	// ListLocationsByRegions merges region locations, deduped and sorted by name
	ListLocationsByRegions(ctx context.Context, regions []string) ([]entities.ListItem, error)

	// ProtagonistCandidates draws up to four single-type pokemon, one per random type,
	// restricted to the given generations (empty means all)
	ProtagonistCandidates(ctx context.Context, generations []int) ([]entities.Element, error)

	// RandomElements draws count story elements, each a coin flip between a pokemon
	// from the given generations and a location
	RandomElements(ctx context.Context, count int, generations []int) ([]entities.Element, error)
}

// Config holds the dependencies for the PokéAPI client
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Roller     dice.Roller
	// Cache is optional
	Cache Cache
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	return vb.Build()
}

type client struct {
	baseURL    string
	httpClient *http.Client
	roller     dice.Roller
	cache      Cache
	group      singleflight.Group
}

// New creates a PokéAPI client
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &client{
		baseURL:    baseURL,
		httpClient: httpClient,
		roller:     cfg.Roller,
		cache:      cfg.Cache,
	}, nil
}

func (c *client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

// getJSON fetches url (cached when a cache is configured) and decodes it into out
func (c *client) getJSON(ctx context.Context, path string, out any) error {
	url := c.url(path)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s", url)
	}
	return nil
}

func (c *client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, url)
		if err != nil {
			slog.WarnContext(ctx, "pokeapi cache read failed", "url", url, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	result, err, _ := c.group.Do(url, func() (any, error) {
		return c.doRequest(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	body := result.([]byte)

	if c.cache != nil {
		if err := c.cache.Set(ctx, url, body); err != nil {
			slog.WarnContext(ctx, "pokeapi cache write failed", "url", url, "error", err)
		}
	}

	return body, nil
}

func (c *client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "pokeapi request failed").
			WithMeta("url", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	slog.DebugContext(ctx, "pokeapi request",
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFoundf("pokeapi resource not found: %s", url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.Unavailablef("pokeapi returned %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read pokeapi response")
	}
	return body, nil
}

func (c *client) ListPokemon(ctx context.Context, page, limit int) ([]entities.ListItem, error) {
	if page < 1 {
		return nil, errors.InvalidArgumentf("page must be at least 1, got %d", page)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	offset := (page - 1) * limit

	var resp listResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/pokemon?limit=%d&offset=%d", limit, offset), &resp); err != nil {
		return nil, err
	}

	return toListItems(resp.Results), nil
}

func (c *client) GetPokemon(ctx context.Context, idOrName string, language entities.Language) (*entities.Pokemon, error) {
	idOrName = strings.ToLower(strings.TrimSpace(idOrName))
	if idOrName == "" {
		return nil, errors.InvalidArgument("pokemon id or name is required")
	}

	var (
		pokemon pokemonResponse
		species speciesResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(gctx, "/pokemon/"+idOrName, &pokemon)
	})
	g.Go(func() error {
		return c.getJSON(gctx, "/pokemon-species/"+idOrName, &species)
	})
	if err := g.Wait(); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFoundf("pokemon %q not found", idOrName)
		}
		return nil, err
	}

	description, ok := species.flavorText(string(language))
	if !ok {
		description = noDescription
	}

	return &entities.Pokemon{
		ID:          pokemon.ID,
		Name:        pokemon.Name,
		Types:       pokemon.typeNames(),
		Height:      pokemon.Height,
		Weight:      pokemon.Weight,
		SpriteURL:   pokemon.spriteURL(),
		CryURL:      pokemon.cryURL(),
		Description: description,
	}, nil
}

func (c *client) ListRegions(ctx context.Context) ([]entities.ListItem, error) {
	var resp listResponse
	if err := c.getJSON(ctx, "/region", &resp); err != nil {
		return nil, err
	}
	return toListItems(resp.Results), nil
}

// fetchRegions loads the named regions concurrently. Unknown regions are
// skipped; any other failure aborts.
func (c *client) fetchRegions(ctx context.Context, names []string) ([]*regionResponse, error) {
	regions := make([]*regionResponse, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutConcurrency)
	for i, name := range names {
		g.Go(func() error {
			var region regionResponse
			err := c.getJSON(gctx, "/region/"+strings.ToLower(name), &region)
			if errors.IsNotFound(err) {
				slog.WarnContext(gctx, "skipping unknown region", "region", name)
				return nil
			}
			if err != nil {
				return err
			}
			regions[i] = &region
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*regionResponse, 0, len(regions))
	for _, r := range regions {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *client) ListPokemonByRegions(ctx context.Context, regions []string) ([]entities.ListItem, error) {
	if len(regions) == 0 {
		return []entities.ListItem{}, nil
	}

	regionData, err := c.fetchRegions(ctx, regions)
	if err != nil {
		return nil, err
	}

	var pokedexURLs []string
	for _, region := range regionData {
		for _, dex := range region.Pokedexes {
			pokedexURLs = append(pokedexURLs, dex.URL)
		}
	}

	pokedexes := make([]*pokedexResponse, len(pokedexURLs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutConcurrency)
	for i, url := range pokedexURLs {
		g.Go(func() error {
			var dex pokedexResponse
			err := c.getJSON(gctx, url, &dex)
			if errors.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return err
			}
			pokedexes[i] = &dex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]entities.ListItem)
	for _, dex := range pokedexes {
		if dex == nil {
			continue
		}
		for _, entry := range dex.PokemonEntries {
			species := entry.PokemonSpecies
			if _, ok := seen[species.Name]; ok {
				continue
			}
			seen[species.Name] = entities.ListItem{
				Name: species.Name,
				URL:  strings.Replace(species.URL, "/pokemon-species/", "/pokemon/", 1),
			}
		}
	}

	return sortedItems(seen), nil
}

func (c *client) ListLocationsByRegions(ctx context.Context, regions []string) ([]entities.ListItem, error) {
	if len(regions) == 0 {
		return []entities.ListItem{}, nil
	}

	regionData, err := c.fetchRegions(ctx, regions)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]entities.ListItem)
	for _, region := range regionData {
		for _, loc := range region.Locations {
			if _, ok := seen[loc.Name]; !ok {
				seen[loc.Name] = loc.toListItem()
			}
		}
	}

	return sortedItems(seen), nil
}

func toListItems(resources []namedResource) []entities.ListItem {
	out := make([]entities.ListItem, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.toListItem())
	}
	return out
}

func sortedItems(m map[string]entities.ListItem) []entities.ListItem {
	out := make([]entities.ListItem, 0, len(m))
	for _, item := range m {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
