package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lupercal/wolfstats/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func storedMatch(id string, hourOffset int, modded bool) model.Match {
	start := time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC).Add(time.Duration(hourOffset) * time.Hour)
	return model.Match{
		ID:        id,
		StartDate: start,
		EndDate:   start.Add(50 * time.Minute),
		MapName:   "village",
		Modded:    modded,
		Players: []model.PlayerRecord{
			{Name: "ana", Camp: model.CampVillager, Won: true},
			{Name: "bo", Camp: model.CampWolf},
		},
	}
}

func TestReplaceMatches_Roundtrip(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.ReplaceMatches([]model.Match{
		storedMatch("g1", 0, false),
		storedMatch("g2", 1, true),
	}))

	rows, err := db.ListMatches()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Newest first.
	assert.Equal(t, "g2", rows[0].ID)
	assert.True(t, rows[0].Modded)
	assert.Equal(t, 2, rows[0].PlayerCount)
	assert.Equal(t, "g1", rows[1].ID)
	assert.True(t, rows[0].StartDate.After(rows[1].StartDate))

	// Replace drops the previous set.
	require.NoError(t, db.ReplaceMatches([]model.Match{storedMatch("g3", 2, false)}))
	rows, err = db.ListMatches()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "g3", rows[0].ID)
}

func TestReplaceDataset_PlayerStats(t *testing.T) {
	db := openTestDB(t)

	aggs := map[string]*model.AggregatedPlayerStat{
		"ana": {
			Name:        "ana",
			GamesPlayed: 40,
			Stats: map[string]model.Value{
				"winRate":        model.Some(62.5),
				"hunterAccuracy": model.Null(),
			},
		},
	}
	percentiles := map[string]map[string]model.PercentileEntry{
		"ana": {
			"winRate": {Value: 62.5, Percentile: 90, Category: model.ExtremeHigh},
		},
	}

	require.NoError(t, db.ReplaceDataset("main", aggs, percentiles, nil))

	rows, err := db.GetPlayerStats("main", "ana")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by stat name.
	hunter := rows[0]
	assert.Equal(t, "hunterAccuracy", hunter.Stat)
	assert.False(t, hunter.Value.Valid, "gated-out stats stay null")
	assert.False(t, hunter.Percentile.Valid)
	assert.Empty(t, hunter.Category)

	win := rows[1]
	assert.Equal(t, "winRate", win.Stat)
	assert.Equal(t, 40, win.GamesPlayed)
	assert.InDelta(t, 62.5, win.Value.Num, 0.001)
	assert.InDelta(t, 90, win.Percentile.Num, 0.001)
	assert.Equal(t, string(model.ExtremeHigh), win.Category)
}

func TestReplaceDataset_TitlesAndNearMisses(t *testing.T) {
	db := openTestDB(t)

	primary := model.TitleInstance{
		ID: "basic:winRate:EXTREME_HIGH", Type: model.TitleBasic, Label: "Apex Predator",
		Priority: 8, Category: model.ExtremeHigh, Percentile: 95,
	}
	secondary := model.TitleInstance{
		ID: "role:seer", Type: model.TitleRoleFrequency, Label: "The Oracle",
		Priority: 3, Percentile: 20, HeldBy: "bo",
	}
	profiles := map[string]*model.PlayerTitleProfile{
		"ana": {
			Name:         "ana",
			Titles:       []model.TitleInstance{primary, secondary},
			PrimaryTitle: &primary,
			NearMisses: []model.NearMissTitle{
				{RuleID: "combo:villageLegend", Label: "Village Legend", Met: 2, Total: 3, MaxGap: 100},
				{RuleID: "combo:restlessGhost", Label: "Restless Ghost", Met: 1, Total: 2, MaxGap: 7},
			},
		},
	}

	require.NoError(t, db.ReplaceDataset("main", nil, nil, profiles))

	all, err := db.GetTitles("main", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "basic:winRate:EXTREME_HIGH", all[0].TitleID)
	assert.True(t, all[0].IsPrimary)
	assert.Equal(t, "role:seer", all[1].TitleID)
	assert.False(t, all[1].IsPrimary)
	assert.Equal(t, "bo", all[1].HeldBy)

	primaries, err := db.GetTitles("main", true)
	require.NoError(t, err)
	require.Len(t, primaries, 1)
	assert.Equal(t, "basic:winRate:EXTREME_HIGH", primaries[0].TitleID)

	misses, err := db.GetNearMisses("main", "ana")
	require.NoError(t, err)
	require.Len(t, misses, 2)
	// Stored order is preserved.
	assert.Equal(t, "combo:villageLegend", misses[0].RuleID)
	assert.Equal(t, "combo:restlessGhost", misses[1].RuleID)
}

func TestReplaceDataset_IsScopedPerDataset(t *testing.T) {
	db := openTestDB(t)

	agg := func(name string) map[string]*model.AggregatedPlayerStat {
		return map[string]*model.AggregatedPlayerStat{
			name: {Name: name, GamesPlayed: 10, Stats: map[string]model.Value{"winRate": model.Some(50)}},
		}
	}
	require.NoError(t, db.ReplaceDataset("main", agg("ana"), nil, nil))
	require.NoError(t, db.ReplaceDataset("modded", agg("bo"), nil, nil))

	// Rewriting one dataset leaves the other untouched.
	require.NoError(t, db.ReplaceDataset("main", agg("cy"), nil, nil))

	gone, err := db.GetPlayerStats("main", "ana")
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := db.GetPlayerStats("modded", "bo")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestGetTopPlayers(t *testing.T) {
	db := openTestDB(t)

	aggs := map[string]*model.AggregatedPlayerStat{
		"ana": {Name: "ana", GamesPlayed: 30, Stats: map[string]model.Value{"winRate": model.Some(50)}},
		"bo":  {Name: "bo", GamesPlayed: 50, Stats: map[string]model.Value{"winRate": model.Some(40)}},
		"cy":  {Name: "cy", GamesPlayed: 50, Stats: map[string]model.Value{"winRate": model.Some(60)}},
		"di":  {Name: "di", GamesPlayed: 10, Stats: map[string]model.Value{"winRate": model.Some(70)}},
	}
	require.NoError(t, db.ReplaceDataset("main", aggs, nil, nil))

	rows, err := db.GetTopPlayers("main", 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Games descending, name breaking ties; the limit cuts the tail.
	assert.Equal(t, "bo", rows[0].Player)
	assert.Equal(t, 50, rows[0].GamesPlayed)
	assert.Equal(t, "cy", rows[1].Player)
	assert.Equal(t, "ana", rows[2].Player)
	assert.False(t, rows[0].Value.Valid, "activity rows carry no stat value")
}

func TestGetOverview(t *testing.T) {
	db := openTestDB(t)

	ov, err := db.GetOverview()
	require.NoError(t, err)
	assert.Zero(t, ov.TotalMatches, "empty store")

	require.NoError(t, db.ReplaceMatches([]model.Match{
		storedMatch("g1", 0, false),
		storedMatch("g2", 1, true),
	}))
	aggs := map[string]*model.AggregatedPlayerStat{
		"ana": {Name: "ana", GamesPlayed: 2, Stats: map[string]model.Value{"winRate": model.Some(100)}},
		"bo":  {Name: "bo", GamesPlayed: 2, Stats: map[string]model.Value{"winRate": model.Some(0)}},
	}
	require.NoError(t, db.ReplaceDataset("main", aggs, nil, nil))

	ov, err = db.GetOverview()
	require.NoError(t, err)
	assert.Equal(t, 2, ov.TotalMatches)
	assert.Equal(t, 1, ov.UniqueMaps)
	assert.Equal(t, 1, ov.ModdedMatches)
	assert.Equal(t, []string{"main"}, ov.Datasets)
	assert.Equal(t, 2, ov.Players)
}
