// Package report renders run summaries, stat tables and title tables to
// the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/lupercal/wolfstats/internal/model"
	"github.com/lupercal/wolfstats/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintRunSummary prints the per-run counters after a sync.
func PrintRunSummary(w io.Writer, s *model.RunSummary) {
	fmt.Fprintf(w, "\n=== Sync Summary (%s) ===\n\n", s.Source)
	fmt.Fprintf(w, "  Files listed   : %d\n", s.FilesListed)
	fmt.Fprintf(w, "  Files fetched  : %d\n", s.FilesFetched)
	fmt.Fprintf(w, "  Matches fetched: %d\n", s.Fetched)
	fmt.Fprintf(w, "  Corrupted      : %d\n", s.Corrupted)
	fmt.Fprintf(w, "  Filtered       : %d\n", s.Filtered)
	fmt.Fprintf(w, "  New matches    : %d\n", s.NewMatches)
	fmt.Fprintf(w, "  Re-merged      : %d\n", s.ReMerged)
	fmt.Fprintf(w, "  Total matches  : %d\n", s.TotalMatches)
	fmt.Fprintf(w, "  Took           : %s\n", s.Duration.Round(time.Millisecond))
	if len(s.FetchErrors) > 0 {
		fmt.Fprintf(w, "\n--- Fetch errors ---\n")
		for _, e := range s.FetchErrors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}

// PrintTitleTable prints title rows for a dataset. Primary titles are
// marked with "*"; titles whose id is held by another player show the
// holder's name.
func PrintTitleTable(w io.Writer, dataset string, rows []storage.TitleRow) {
	fmt.Fprintf(w, "\n--- Titles (%s) ---\n\n", dataset)
	table := newTable(w)
	table.Header(" ", "PLAYER", "TITLE", "TYPE", "PRIO", "CATEGORY", "PCTL", "HELD BY")
	for _, r := range rows {
		marker := " "
		if r.IsPrimary {
			marker = "*"
		}
		table.Append(
			marker,
			r.Player,
			r.Label,
			r.Type,
			strconv.Itoa(r.Priority),
			r.Category,
			fmt.Sprintf("%.1f", r.Percentile),
			r.HeldBy,
		)
	}
	table.Render()
}

// PrintPlayerStatTable prints one player's stat rows with percentiles.
// Gated-out stats render as "-".
func PrintPlayerStatTable(w io.Writer, dataset string, rows []storage.PlayerStatRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- %s (%s, %d games) ---\n\n", rows[0].Player, dataset, rows[0].GamesPlayed)
	table := newTable(w)
	table.Header("STAT", "VALUE", "PCTL", "CATEGORY")
	for _, r := range rows {
		value, pctl := "-", "-"
		if r.Value.Valid {
			value = fmt.Sprintf("%.2f", r.Value.Num)
		}
		if r.Percentile.Valid {
			pctl = fmt.Sprintf("%.1f", r.Percentile.Num)
		}
		table.Append(r.Stat, value, pctl, r.Category)
	}
	table.Render()
}

// PrintNearMissTable prints a player's near-miss list, closest first.
func PrintNearMissTable(w io.Writer, rows []storage.NearMissRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Near misses ---\n\n")
	table := newTable(w)
	table.Header("TITLE", "MET", "GAP")
	for _, r := range rows {
		table.Append(
			r.Label,
			fmt.Sprintf("%d/%d", r.Met, r.Total),
			fmt.Sprintf("%.1f", r.MaxGap),
		)
	}
	table.Render()
}

// PrintTopPlayers prints a dataset's most active players.
func PrintTopPlayers(w io.Writer, dataset string, rows []storage.PlayerStatRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Most active players (%s) ---\n\n", dataset)
	table := newTable(w)
	table.Header("PLAYER", "GAMES")
	for _, r := range rows {
		table.Append(r.Player, strconv.Itoa(r.GamesPlayed))
	}
	table.Render()
}

// PrintOverview prints the store-wide summary.
func PrintOverview(w io.Writer, ov *storage.Overview) {
	fmt.Fprintf(w, "\n=== Store Summary ===\n\n")
	fmt.Fprintf(w, "  Matches stored : %d\n", ov.TotalMatches)
	fmt.Fprintf(w, "  Date range     : %s .. %s\n", ov.EarliestMatch, ov.LatestMatch)
	fmt.Fprintf(w, "  Unique maps    : %d\n", ov.UniqueMaps)
	fmt.Fprintf(w, "  Modded matches : %d\n", ov.ModdedMatches)
	fmt.Fprintf(w, "  Players seen   : %d\n", ov.Players)
	fmt.Fprintf(w, "  Datasets       : %v\n", ov.Datasets)
}
