package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	v1 "github.com/KirkDiggler/pokestory-api/internal/handlers/pokestory/v1"
)

var (
	pokemonPage     int
	pokemonLimit    int
	pokemonRegions  []string
	pokemonLanguage string
	favoriteDetails bool
)

var pokemonCmd = &cobra.Command{
	Use:   "pokemon [id-or-name]",
	Short: "List pokemon, or show one when an id or name is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			if len(args) == 1 {
				resp, err := client.GetPokemon(ctx, &v1.GetPokemonRequest{
					IDOrName: args[0],
					Language: entities.Language(pokemonLanguage),
				})
				if err != nil {
					return fmt.Errorf("failed to get pokemon: %w", err)
				}
				if done, err := printJSON(resp); done {
					return err
				}
				printPokemon(resp.Pokemon)
				return nil
			}

			resp, err := client.ListPokemon(ctx, &v1.ListPokemonRequest{
				Page:    pokemonPage,
				Limit:   pokemonLimit,
				Regions: pokemonRegions,
			})
			if err != nil {
				return fmt.Errorf("failed to list pokemon: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}
			for _, item := range resp.Items {
				fmt.Printf("  %s\n", item.Name)
			}
			fmt.Printf("%d pokemon\n", len(resp.Items))
			return nil
		})
	},
}

var generationsCmd = &cobra.Command{
	Use:   "generations",
	Short: "List the pokemon generations",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.ListGenerations(ctx)
			if err != nil {
				return fmt.Errorf("failed to list generations: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}
			for _, g := range resp.Generations {
				fmt.Printf("  %d  %-18s #%d-#%d\n", g.ID, g.DisplayName, g.Start, g.End)
			}
			return nil
		})
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List favorite species",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.ListFavorites(ctx, &v1.ListFavoritesRequest{
				PlayerID:       playerID,
				IncludeDetails: favoriteDetails,
				Language:       entities.Language(pokemonLanguage),
			})
			if err != nil {
				return fmt.Errorf("failed to list favorites: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}
			if len(resp.Pokemon) > 0 {
				for _, p := range resp.Pokemon {
					printPokemon(p)
				}
				return nil
			}
			fmt.Printf("Favorites: %v\n", resp.SpeciesIDs)
			return nil
		})
	},
}

var favoriteToggleCmd = &cobra.Command{
	Use:   "toggle [species-id]",
	Short: "Add or remove a species from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("species id must be a number: %w", err)
		}

		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.ToggleFavorite(ctx, &v1.ToggleFavoriteRequest{PlayerID: playerID, SpeciesID: id})
			if err != nil {
				return fmt.Errorf("failed to toggle favorite: %w", err)
			}
			if resp.Favorited {
				fmt.Printf("#%d added to favorites\n", id)
			} else {
				fmt.Printf("#%d removed from favorites\n", id)
			}
			return nil
		})
	},
}

func init() {
	pokemonCmd.Flags().IntVar(&pokemonPage, "page", 1, "Page number")
	pokemonCmd.Flags().IntVar(&pokemonLimit, "limit", 0, "Page size (default 30)")
	pokemonCmd.Flags().StringSliceVar(&pokemonRegions, "regions", nil, "Only list pokemon from these regions")
	pokemonCmd.PersistentFlags().StringVar(&pokemonLanguage, "language", "en", "Description language (es, en)")

	favoritesCmd.Flags().BoolVar(&favoriteDetails, "details", false, "Fetch species details")
	favoritesCmd.Flags().StringVar(&pokemonLanguage, "language", "en", "Description language (es, en)")
	favoritesCmd.AddCommand(favoriteToggleCmd)
}

func printPokemon(p *entities.Pokemon) {
	if p == nil {
		return
	}
	fmt.Printf("#%d %s [%s]\n", p.ID, p.Name, strings.Join(p.Types, "/"))
	fmt.Printf("  Height: %.1f m  Weight: %.1f kg\n", float64(p.Height)/10, float64(p.Weight)/10)
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
}
