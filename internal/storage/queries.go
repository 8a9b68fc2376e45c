package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/lupercal/wolfstats/internal/model"
)

// MatchRow is a lightweight match record for the list command.
type MatchRow struct {
	ID          string
	StartDate   time.Time
	EndDate     time.Time
	MapName     string
	Modded      bool
	PlayerCount int
}

// PlayerStatRow is one (player, stat) row with its percentile, when the
// player was eligible.
type PlayerStatRow struct {
	Player      string
	GamesPlayed int
	Stat        string
	Value       model.Value
	Percentile  model.Value
	Category    string
}

// TitleRow is one stored title instance.
type TitleRow struct {
	Player     string
	TitleID    string
	Type       string
	Label      string
	Priority   int
	Category   string
	Percentile float64
	IsPrimary  bool
	HeldBy     string
}

// NearMissRow is one stored near-miss entry, ordered by position.
type NearMissRow struct {
	Player string
	RuleID string
	Label  string
	Met    int
	Total  int
	MaxGap float64
}

// Overview summarizes the whole store for the summary command.
type Overview struct {
	TotalMatches  int
	EarliestMatch string
	LatestMatch   string
	UniqueMaps    int
	ModdedMatches int
	Datasets      []string
	Players       int
}

// ReplaceMatches rewrites the matches table from the merged match set.
func (db *DB) ReplaceMatches(matches []model.Match) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO matches(id, start_date, end_date, map_name, modded, player_count)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range matches {
		_, err := stmt.Exec(
			m.ID,
			m.StartDate.UTC().Format(time.RFC3339),
			m.EndDate.UTC().Format(time.RFC3339),
			m.MapName, boolInt(m.Modded), len(m.Players),
		)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// ReplaceDataset rewrites one dataset's stats, titles and near-misses
// from a completed run.
func (db *DB) ReplaceDataset(
	dataset string,
	aggs map[string]*model.AggregatedPlayerStat,
	percentiles map[string]map[string]model.PercentileEntry,
	profiles map[string]*model.PlayerTitleProfile,
) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"player_stats", "titles", "near_misses"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE dataset = ?", dataset); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	statStmt, err := tx.Prepare(`
		INSERT INTO player_stats(dataset, player, games_played, stat, value, percentile, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer statStmt.Close()

	names := make([]string, 0, len(aggs))
	for name := range aggs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		agg := aggs[name]
		stats := make([]string, 0, len(agg.Stats))
		for stat := range agg.Stats {
			stats = append(stats, stat)
		}
		sort.Strings(stats)

		for _, stat := range stats {
			v := agg.Stats[stat]
			var value, percentile any
			var category string
			if v.Valid {
				value = v.Num
			}
			if entry, ok := percentiles[name][stat]; ok {
				percentile = entry.Percentile
				category = string(entry.Category)
			}
			if _, err := statStmt.Exec(dataset, name, agg.GamesPlayed, stat, value, percentile, category); err != nil {
				return fmt.Errorf("insert player_stats for %s/%s: %w", name, stat, err)
			}
		}
	}

	titleStmt, err := tx.Prepare(`
		INSERT INTO titles(dataset, player, title_id, type, label, priority, category, percentile, is_primary, held_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer titleStmt.Close()

	missStmt, err := tx.Prepare(`
		INSERT INTO near_misses(dataset, player, rule_id, label, met, total, max_gap, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer missStmt.Close()

	profileNames := make([]string, 0, len(profiles))
	for name := range profiles {
		profileNames = append(profileNames, name)
	}
	sort.Strings(profileNames)

	for _, name := range profileNames {
		p := profiles[name]
		primaryID := ""
		if p.PrimaryTitle != nil {
			primaryID = p.PrimaryTitle.ID
		}
		for _, t := range p.Titles {
			_, err := titleStmt.Exec(
				dataset, name, t.ID, string(t.Type), t.Label, t.Priority,
				string(t.Category), t.Percentile, boolInt(t.ID == primaryID), t.HeldBy,
			)
			if err != nil {
				return fmt.Errorf("insert title %s for %s: %w", t.ID, name, err)
			}
		}
		for i, nm := range p.NearMisses {
			_, err := missStmt.Exec(dataset, name, nm.RuleID, nm.Label, nm.Met, nm.Total, nm.MaxGap, i)
			if err != nil {
				return fmt.Errorf("insert near miss %s for %s: %w", nm.RuleID, name, err)
			}
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored matches ordered by start date descending.
func (db *DB) ListMatches() ([]MatchRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, start_date, end_date, map_name, modded, player_count
		FROM matches ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRow
	for rows.Next() {
		var r MatchRow
		var start, end string
		var modded int
		if err := rows.Scan(&r.ID, &start, &end, &r.MapName, &modded, &r.PlayerCount); err != nil {
			return nil, err
		}
		r.StartDate, _ = time.Parse(time.RFC3339, start)
		r.EndDate, _ = time.Parse(time.RFC3339, end)
		r.Modded = modded != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetPlayerStats returns one player's stat rows for a dataset.
func (db *DB) GetPlayerStats(dataset, player string) ([]PlayerStatRow, error) {
	rows, err := db.conn.Query(`
		SELECT player, games_played, stat, value, percentile, category
		FROM player_stats WHERE dataset = ? AND player = ?
		ORDER BY stat`, dataset, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStatRows(rows)
}

// GetTopPlayers returns the most active players of a dataset.
func (db *DB) GetTopPlayers(dataset string, limit int) ([]PlayerStatRow, error) {
	rows, err := db.conn.Query(`
		SELECT player, games_played, '' AS stat, NULL, NULL, ''
		FROM player_stats WHERE dataset = ?
		GROUP BY player ORDER BY games_played DESC, player LIMIT ?`, dataset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStatRows(rows)
}

func scanStatRows(rows *sql.Rows) ([]PlayerStatRow, error) {
	var out []PlayerStatRow
	for rows.Next() {
		var r PlayerStatRow
		var value, percentile sql.NullFloat64
		if err := rows.Scan(&r.Player, &r.GamesPlayed, &r.Stat, &value, &percentile, &r.Category); err != nil {
			return nil, err
		}
		if value.Valid {
			r.Value = model.Some(value.Float64)
		}
		if percentile.Valid {
			r.Percentile = model.Some(percentile.Float64)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTitles returns a dataset's title rows. With primaryOnly set, only
// each player's primary title is returned.
func (db *DB) GetTitles(dataset string, primaryOnly bool) ([]TitleRow, error) {
	q := `
		SELECT player, title_id, type, label, priority, category, percentile, is_primary, held_by
		FROM titles WHERE dataset = ?`
	if primaryOnly {
		q += " AND is_primary = 1"
	}
	q += " ORDER BY player, priority DESC, title_id"

	rows, err := db.conn.Query(q, dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TitleRow
	for rows.Next() {
		var r TitleRow
		var isPrimary int
		if err := rows.Scan(&r.Player, &r.TitleID, &r.Type, &r.Label, &r.Priority,
			&r.Category, &r.Percentile, &isPrimary, &r.HeldBy); err != nil {
			return nil, err
		}
		r.IsPrimary = isPrimary != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetNearMisses returns one player's near-miss rows in stored order.
func (db *DB) GetNearMisses(dataset, player string) ([]NearMissRow, error) {
	rows, err := db.conn.Query(`
		SELECT player, rule_id, label, met, total, max_gap
		FROM near_misses WHERE dataset = ? AND player = ?
		ORDER BY position`, dataset, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NearMissRow
	for rows.Next() {
		var r NearMissRow
		if err := rows.Scan(&r.Player, &r.RuleID, &r.Label, &r.Met, &r.Total, &r.MaxGap); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetOverview summarizes the store for the summary command.
func (db *DB) GetOverview() (*Overview, error) {
	ov := &Overview{}
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       COALESCE(MIN(start_date), ''),
		       COALESCE(MAX(start_date), ''),
		       COUNT(DISTINCT map_name),
		       COALESCE(SUM(modded), 0)
		FROM matches`).
		Scan(&ov.TotalMatches, &ov.EarliestMatch, &ov.LatestMatch, &ov.UniqueMaps, &ov.ModdedMatches)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Query("SELECT DISTINCT dataset FROM player_stats ORDER BY dataset")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ds string
		if err := rows.Scan(&ds); err != nil {
			return nil, err
		}
		ov.Datasets = append(ov.Datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = db.conn.QueryRow("SELECT COUNT(DISTINCT player) FROM player_stats").Scan(&ov.Players)
	if err != nil {
		return nil, err
	}
	return ov, nil
}
