package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lupercal/wolfstats/internal/extract"
	"github.com/lupercal/wolfstats/internal/pipeline"
	"github.com/lupercal/wolfstats/internal/rank"
	"github.com/lupercal/wolfstats/internal/report"
	"github.com/lupercal/wolfstats/internal/storage"
	syncer "github.com/lupercal/wolfstats/internal/sync"
	"github.com/lupercal/wolfstats/internal/titles"
)

var syncFull bool

var syncCmd = &cobra.Command{
	Use:   "sync <source>",
	Short: "Fetch match logs from a named source and recompute all artifacts",
	Long: `Fetch match-log files from the named data source, merge them into the
persisted dataset, and recompute aggregated stats, percentile rankings
and titles for every dataset.

Sources: aws, legacy`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVarP(&syncFull, "full", "f", false, "ignore the cache and resync from scratch")
}

func runSync(cmd *cobra.Command, args []string) error {
	log := newLogger()
	sourceName := args[0]

	cfg, ok := syncer.Sources()[sourceName]
	if !ok {
		return fmt.Errorf("%w: %q", syncer.ErrUnknownSource, sourceName)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	pipe := pipeline.New(extract.Default(), titles.DefaultConfig(), rank.DefaultMinGames, log)
	runner := syncer.NewRunner(cfg, syncer.NewHTTPClient(cfg), pipe,
		cachePath(), matchLogPath(), syncer.DefaultRecencyWindow, log)

	summary, results, err := runner.Run(cmd.Context(), syncFull)
	if err != nil {
		return fmt.Errorf("sync %s: %w", sourceName, err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ml := syncer.LoadMatchLog(matchLogPath(), log)
	if err := db.ReplaceMatches(ml.GameStats); err != nil {
		return fmt.Errorf("store matches: %w", err)
	}
	for name, res := range results {
		if err := db.ReplaceDataset(name, res.Aggregated, res.Percentiles, res.Profiles); err != nil {
			return fmt.Errorf("store dataset %s: %w", name, err)
		}
	}

	report.PrintRunSummary(os.Stdout, summary)
	return nil
}
