package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lupercal/wolfstats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'wolfstats sync <source>' first.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-28s  %-16s  %-12s  %-7s  %s\n",
		"ID", "START", "MAP", "MODDED", "PLAYERS")
	fmt.Fprintf(os.Stdout, "%-28s  %-16s  %-12s  %-7s  %s\n",
		"────────────────────────────", "────────────────", "────────────", "───────", "───────")
	for _, m := range matches {
		modded := "no"
		if m.Modded {
			modded = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-28s  %-16s  %-12s  %-7s  %d\n",
			m.ID, m.StartDate.Format("2006-01-02 15:04"), m.MapName, modded, m.PlayerCount)
	}
	return nil
}
