package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lupercal/wolfstats/internal/report"
	"github.com/lupercal/wolfstats/internal/storage"
	syncer "github.com/lupercal/wolfstats/internal/sync"
)

var playerDataset string

// playerCmd shows one or more players' stored stats, percentiles and
// near-miss titles.
var playerCmd = &cobra.Command{
	Use:   "player <name> [<name>...]",
	Short: "Per-player stats and percentile breakdown",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().StringVar(&playerDataset, "dataset", syncer.DatasetMain, "dataset to show (main, modded)")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	for _, name := range args {
		stats, err := db.GetPlayerStats(playerDataset, name)
		if err != nil {
			return fmt.Errorf("query stats for %s: %w", name, err)
		}
		if len(stats) == 0 {
			fmt.Fprintf(os.Stderr, "No data found for player %q\n", name)
			continue
		}
		report.PrintPlayerStatTable(os.Stdout, playerDataset, stats)

		misses, err := db.GetNearMisses(playerDataset, name)
		if err != nil {
			return fmt.Errorf("query near misses for %s: %w", name, err)
		}
		report.PrintNearMissTable(os.Stdout, misses)
	}
	return nil
}
