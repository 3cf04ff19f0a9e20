package pokeapi

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

// Wire shapes for the subset of PokéAPI we read

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (n namedResource) toListItem() entities.ListItem {
	return entities.ListItem{Name: n.Name, URL: n.URL}
}

// idFromURL extracts the trailing numeric ID from a resource URL such as
// https://pokeapi.co/api/v2/pokemon/25/
func (n namedResource) idFromURL() (int, bool) {
	parts := strings.Split(strings.TrimRight(n.URL, "/"), "/")
	if len(parts) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return id, true
}

type listResponse struct {
	Count   int             `json:"count"`
	Results []namedResource `json:"results"`
}

type pokemonResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Types  []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Cries struct {
		Latest string `json:"latest"`
		Legacy string `json:"legacy"`
	} `json:"cries"`
}

// spriteURL prefers the official artwork
func (p *pokemonResponse) spriteURL() string {
	if p.Sprites.Other.OfficialArtwork.FrontDefault != "" {
		return p.Sprites.Other.OfficialArtwork.FrontDefault
	}
	return p.Sprites.FrontDefault
}

func (p *pokemonResponse) cryURL() string {
	if p.Cries.Latest != "" {
		return p.Cries.Latest
	}
	return p.Cries.Legacy
}

func (p *pokemonResponse) typeNames() []string {
	out := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		out = append(out, t.Type.Name)
	}
	return out
}

func (p *pokemonResponse) toElement() entities.Element {
	return entities.Element{
		ID:          p.ID,
		Name:        p.Name,
		Kind:        entities.ElementKindPokemon,
		InternalURL: "/pokemon/" + p.Name,
		SpriteURL:   p.spriteURL(),
	}
}

type speciesResponse struct {
	FlavorTextEntries []struct {
		FlavorText string        `json:"flavor_text"`
		Language   namedResource `json:"language"`
	} `json:"flavor_text_entries"`
}

// flavorText returns the first entry in language, falling back to English
func (s *speciesResponse) flavorText(language string) (string, bool) {
	for _, lang := range []string{language, string(entities.LanguageEnglish)} {
		for _, entry := range s.FlavorTextEntries {
			if entry.Language.Name == lang {
				return flattenText(entry.FlavorText), true
			}
		}
	}
	return "", false
}

var flavorTextReplacer = strings.NewReplacer("\n", " ", "\f", " ")

func flattenText(s string) string {
	return flavorTextReplacer.Replace(s)
}

type regionResponse struct {
	Name      string          `json:"name"`
	Locations []namedResource `json:"locations"`
	Pokedexes []namedResource `json:"pokedexes"`
}

type pokedexResponse struct {
	PokemonEntries []struct {
		EntryNumber    int           `json:"entry_number"`
		PokemonSpecies namedResource `json:"pokemon_species"`
	} `json:"pokemon_entries"`
}

type typeResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Pokemon []struct {
		Pokemon namedResource `json:"pokemon"`
	} `json:"pokemon"`
}

type locationResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (l *locationResponse) toElement() entities.Element {
	return entities.Element{
		ID:          -l.ID,
		Name:        l.Name,
		Kind:        entities.ElementKindLocation,
		InternalURL: "/locations/" + l.Name,
	}
}
