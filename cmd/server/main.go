// Package main is the entry point for the PokeStory gRPC server and its tools
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokestory-api/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "pokestory",
	Short: "PokeStory API gRPC Server",
	Long:  `PokeStory API serves the companion roster, species data and the AI-narrated story over gRPC.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
