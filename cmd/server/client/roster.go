package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	v1 "github.com/KirkDiggler/pokestory-api/internal/handlers/pokestory/v1"
)

var adoptNickname string

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the player's companions",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.ListRoster(ctx, &v1.PlayerRequest{PlayerID: playerID})
			if err != nil {
				return fmt.Errorf("failed to list roster: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}

			fmt.Printf("Roster (%d/%d)\n", len(resp.Companions), resp.Capacity)
			for _, c := range resp.Companions {
				printCompanion(c)
			}
			return nil
		})
	},
}

var adoptCmd = &cobra.Command{
	Use:   "adopt [species]",
	Short: "Adopt a new level 1 companion",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.AdoptCompanion(ctx, &v1.AdoptCompanionRequest{
				PlayerID: playerID,
				Species:  args[0],
				Nickname: adoptNickname,
			})
			if err != nil {
				return fmt.Errorf("failed to adopt: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}

			if !resp.Adopted {
				fmt.Printf("Roster is full (%d companions); release one first\n", len(resp.Companions))
				return nil
			}
			fmt.Println("Adopted:")
			printCompanion(resp.Companion)
			return nil
		})
	},
}

var releaseCmd = &cobra.Command{
	Use:   "release [companion-id]",
	Short: "Release a companion from the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.ReleaseCompanion(ctx, &v1.CompanionRequest{PlayerID: playerID, CompanionID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to release: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}

			if resp.Released {
				fmt.Printf("Released %s, %d companions left\n", args[0], len(resp.Companions))
			} else {
				fmt.Printf("No companion %s in the roster\n", args[0])
			}
			return nil
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename [companion-id] [nickname]",
	Short: "Change a companion's nickname",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.RenameCompanion(ctx, &v1.RenameCompanionRequest{
				PlayerID:    playerID,
				CompanionID: args[0],
				Nickname:    args[1],
			})
			if err != nil {
				return fmt.Errorf("failed to rename: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}
			printCompanion(resp.Companion)
			return nil
		})
	},
}

func init() {
	adoptCmd.Flags().StringVar(&adoptNickname, "nickname", "", "Nickname (defaults to the species name)")
}

func printCompanion(c *entities.Companion) {
	if c == nil {
		return
	}
	fmt.Printf("  %s the %s (ID: %s)\n", c.DisplayName(), c.SpeciesName, c.ID)
	fmt.Printf("    Level %d  XP %d/%d  HP %d/%d  Morale %d/%d\n",
		c.Level, c.Experience, c.ExperienceToNextLevel,
		c.Stats.CurrentHP, c.Stats.MaxHP, c.Stats.CurrentMorale, c.Stats.MaxMorale)
	if len(c.Traits) > 0 {
		fmt.Printf("    Traits: %s\n", strings.Join(c.Traits, ", "))
	}
}
