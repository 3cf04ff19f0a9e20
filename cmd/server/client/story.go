package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	v1 "github.com/KirkDiggler/pokestory-api/internal/handlers/pokestory/v1"
)

var (
	startCompanionID string
	startSpecies     string
	startNickname    string
	startLanguage    string
	startGenerations []int
	savedLimit       int
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a story with a roster companion or a new species",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.StartStory(ctx, &v1.StartStoryRequest{
				PlayerID:    playerID,
				CompanionID: startCompanionID,
				Species:     startSpecies,
				Nickname:    startNickname,
				Language:    entities.Language(startLanguage),
				Generations: startGenerations,
			})
			if err != nil {
				return fmt.Errorf("failed to start story: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}

			if resp.Adopted {
				fmt.Println("The protagonist joined your roster.")
			}
			printStory(resp.Story)
			return nil
		})
	},
}

var chooseCmd = &cobra.Command{
	Use:   "choose [session-id] [option 1-4]",
	Short: "Pick an option in the current segment",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		option, err := strconv.Atoi(args[1])
		if err != nil || option < 1 || option > entities.OptionsPerStep {
			return fmt.Errorf("option must be a number between 1 and %d", entities.OptionsPerStep)
		}

		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.ChooseOption(ctx, &v1.ChooseOptionRequest{
				PlayerID:    playerID,
				SessionID:   args[0],
				OptionIndex: option - 1,
			})
			if err != nil {
				return fmt.Errorf("failed to choose: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}

			if resp.Resumed {
				fmt.Println("Finished the previous choice, which was interrupted; this one was not applied.")
			}
			if resp.LeveledUp > 0 {
				fmt.Printf("%s gained %d level(s)!\n", resp.Story.Protagonist.DisplayName(), resp.LeveledUp)
			}
			printStory(resp.Story)
			if resp.SavedStoryID != "" {
				fmt.Printf("\nSaved as %s\n", resp.SavedStoryID)
			}
			return nil
		})
	},
}

var storyCmd = &cobra.Command{
	Use:   "story [session-id]",
	Short: "Show a story in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.GetStory(ctx, &v1.GetStoryRequest{PlayerID: playerID, SessionID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to get story: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}
			printStory(resp.Story)
			return nil
		})
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List saved stories",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.ListSavedStories(ctx, &v1.ListSavedStoriesRequest{PlayerID: playerID, Limit: savedLimit})
			if err != nil {
				return fmt.Errorf("failed to list saved stories: %w", err)
			}
			if done, err := printJSON(resp); done {
				return err
			}

			if len(resp.Stories) == 0 {
				fmt.Println("No saved stories yet")
				return nil
			}
			for _, s := range resp.Stories {
				fmt.Printf("%s  %s  %s the %s, level %d [%s, %s, %d chapters]\n",
					s.SavedAt.Format("2006-01-02 15:04"), s.ID,
					s.ProtagonistName, s.ProtagonistSpecies, s.Level,
					s.Outcome, s.Language, len(s.History))
			}
			return nil
		})
	},
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete [story-id]",
	Short: "Delete a saved story",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return call(func(ctx context.Context, client *v1.Client) error {
			resp, err := client.DeleteSavedStory(ctx, &v1.DeleteSavedStoryRequest{PlayerID: playerID, StoryID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to delete saved story: %w", err)
			}
			if resp.Deleted {
				fmt.Printf("Deleted %s\n", args[0])
			} else {
				fmt.Printf("No saved story %s\n", args[0])
			}
			return nil
		})
	},
}

func init() {
	startCmd.Flags().StringVar(&startCompanionID, "companion", "", "Roster companion ID")
	startCmd.Flags().StringVar(&startSpecies, "species", "", "Species to adopt as protagonist")
	startCmd.Flags().StringVar(&startNickname, "nickname", "", "Nickname for a new protagonist")
	startCmd.Flags().StringVar(&startLanguage, "language", "es", "Story language (es, en)")
	startCmd.Flags().IntSliceVar(&startGenerations, "generations", nil, "Generations to draw elements from (1-9)")
	startCmd.MarkFlagsMutuallyExclusive("companion", "species")
	startCmd.MarkFlagsOneRequired("companion", "species")

	savedCmd.Flags().IntVar(&savedLimit, "limit", 20, "Maximum stories to list")
	savedCmd.AddCommand(savedDeleteCmd)
}

func printStory(state *entities.StoryState) {
	if state == nil {
		return
	}

	fmt.Printf("Story %s  [%s]  step %d/%d\n", state.ID, state.Status, state.CurrentStep, entities.FinalStep)
	printCompanion(state.Protagonist)

	if len(state.MapNodes) > 0 {
		titles := make([]string, len(state.MapNodes))
		for i, node := range state.MapNodes {
			titles[i] = fmt.Sprintf("%d:%s", node.Step, node.Title)
		}
		fmt.Printf("  Journey: %s\n", strings.Join(titles, " > "))
	}

	if state.Status != entities.StoryStatusActive {
		return
	}
	if state.Generating {
		fmt.Println("\n(the next chapter is still being written)")
		return
	}

	segment := state.CurrentSegment
	if segment == nil {
		return
	}
	fmt.Printf("\n%s\n\n", segment.StoryText)
	for i, option := range segment.Options {
		fmt.Printf("  %d) %s\n", i+1, option.Text)
	}
}
