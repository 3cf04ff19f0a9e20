// Package client provides test commands for the PokeStory gRPC service
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/pokestory-api/internal/errors"
	v1 "github.com/KirkDiggler/pokestory-api/internal/handlers/pokestory/v1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
	playerID   string
	jsonOutput bool
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the PokeStory API",
	Long:  `Client commands allow you to exercise the PokeStory API by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&playerID, "player", "local-player", "Player ID")
	ClientCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	// Roster commands
	ClientCmd.AddCommand(rosterCmd)
	ClientCmd.AddCommand(adoptCmd)
	ClientCmd.AddCommand(releaseCmd)
	ClientCmd.AddCommand(renameCmd)

	// Story commands
	ClientCmd.AddCommand(startCmd)
	ClientCmd.AddCommand(chooseCmd)
	ClientCmd.AddCommand(storyCmd)
	ClientCmd.AddCommand(savedCmd)

	// Species commands
	ClientCmd.AddCommand(pokemonCmd)
	ClientCmd.AddCommand(generationsCmd)
	ClientCmd.AddCommand(favoritesCmd)
}

// createClient dials the server and returns a typed client
func createClient() (*v1.Client, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1.NewClient(conn), cleanup, nil
}

// call runs fn with a connected client and the request timeout
func call(fn func(ctx context.Context, client *v1.Client) error) error {
	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return describe(fn(ctx, client))
}

// describe expands field violations and flags errors worth retrying
func describe(err error) error {
	if err == nil {
		return nil
	}
	msg := errors.GetMessage(err)
	for _, v := range errors.GetViolations(err) {
		msg += fmt.Sprintf("\n  %s: %s", v.Field, v.Description)
	}
	if errors.IsRetryable(err) {
		msg += "\n(temporary failure, try again)"
	}
	return fmt.Errorf("%s: %s", errors.GetCode(err), msg)
}

// printJSON prints v indented when --json is set and reports whether it did
func printJSON(v any) (bool, error) {
	if !jsonOutput {
		return false, nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return true, fmt.Errorf("failed to marshal response to JSON: %w", err)
	}
	fmt.Println(string(data))
	return true, nil
}
