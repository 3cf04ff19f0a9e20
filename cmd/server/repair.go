package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokestory-api/internal/config"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/pokestory-api/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/pokestory-api/internal/redis"
	rosterrepo "github.com/KirkDiggler/pokestory-api/internal/repositories/roster"
)

var (
	repairDryRun bool
	repairURL    string
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Drop roster blobs that no longer decode",
	Long: `Scan every stored roster and delete the ones that fail to decode.
Players with a deleted roster start again from an empty one.`,
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "Report corrupt rosters without deleting them")
	repairCmd.Flags().StringVar(&repairURL, "redis-url", "", "Redis URL (defaults to REDIS_URL)")
}

func runRepair(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	url := repairURL
	if url == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		url = cfg.RedisURL
	}

	client, err := redisclient.Open(ctx, &redisclient.Config{URL: url})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	repo, err := rosterrepo.NewRedis(&rosterrepo.RedisConfig{Client: client})
	if err != nil {
		return err
	}
	service, err := roster.NewOrchestrator(&roster.Config{
		Repository:  repo,
		IDGenerator: idgen.NewUUID("companion"),
	})
	if err != nil {
		return err
	}

	out, err := service.Repair(ctx, &roster.RepairInput{DryRun: repairDryRun})
	if err != nil {
		return fmt.Errorf("repair failed: %w", err)
	}

	fmt.Printf("Checked %d rosters\n", out.Checked)
	if len(out.CorruptKeys) == 0 {
		fmt.Println("No corrupt rosters found")
		return nil
	}

	verb := "Deleted"
	if repairDryRun {
		verb = "Would delete"
	}
	for _, key := range out.CorruptKeys {
		fmt.Printf("  %s %s\n", verb, key)
	}
	slog.Info("roster repair finished", "checked", out.Checked, "corrupt", len(out.CorruptKeys), "dry_run", repairDryRun)
	return nil
}
