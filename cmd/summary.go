package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lupercal/wolfstats/internal/report"
	"github.com/lupercal/wolfstats/internal/storage"
	syncer "github.com/lupercal/wolfstats/internal/sync"
)

const topPlayersLimit = 10

// summaryCmd is the cobra command for displaying a high-level store overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the artifact store",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'wolfstats sync <source>' first.")
		return nil
	}

	report.PrintOverview(os.Stdout, ov)

	top, err := db.GetTopPlayers(syncer.DatasetMain, topPlayersLimit)
	if err != nil {
		return fmt.Errorf("get top players: %w", err)
	}
	report.PrintTopPlayers(os.Stdout, syncer.DatasetMain, top)
	return nil
}
