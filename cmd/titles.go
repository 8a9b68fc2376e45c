package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lupercal/wolfstats/internal/report"
	"github.com/lupercal/wolfstats/internal/storage"
	syncer "github.com/lupercal/wolfstats/internal/sync"
)

var (
	titlesDataset string
	titlesAll     bool
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Show computed titles",
	Args:  cobra.NoArgs,
	RunE:  runTitles,
}

func init() {
	titlesCmd.Flags().StringVar(&titlesDataset, "dataset", syncer.DatasetMain, "dataset to show (main, modded)")
	titlesCmd.Flags().BoolVar(&titlesAll, "all", false, "show every title, not just primaries")
}

func runTitles(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.GetTitles(titlesDataset, !titlesAll)
	if err != nil {
		return fmt.Errorf("get titles: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No titles stored yet. Run 'wolfstats sync <source>' first.")
		return nil
	}

	report.PrintTitleTable(os.Stdout, titlesDataset, rows)
	return nil
}
