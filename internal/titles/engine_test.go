package titles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lupercal/wolfstats/internal/extract"
	"github.com/lupercal/wolfstats/internal/model"
)

func entry(value, percentile float64, cat model.Category) model.PercentileEntry {
	return model.PercentileEntry{Value: value, Percentile: percentile, Category: cat}
}

func newAgg(name string, games int) *model.AggregatedPlayerStat {
	return &model.AggregatedPlayerStat{
		Name:        name,
		GamesPlayed: games,
		Stats:       make(map[string]model.Value),
		CampGames:   make(map[model.Camp]int),
		Roles:       make(map[string]int),
	}
}

func titleByID(t *testing.T, titles []model.TitleInstance, id string) model.TitleInstance {
	t.Helper()
	for _, title := range titles {
		if title.ID == id {
			return title
		}
	}
	t.Fatalf("title %q not found", id)
	return model.TitleInstance{}
}

func hasTitle(titles []model.TitleInstance, id string) bool {
	for _, t := range titles {
		if t.ID == id {
			return true
		}
	}
	return false
}

func TestBasicTitles_TierAndPriority(t *testing.T) {
	e := NewEngine(DefaultConfig())
	entries := map[string]model.PercentileEntry{
		extract.StatWinRate:      entry(72, 92, model.ExtremeHigh),
		extract.StatSurvivalRate: entry(40, 40, model.Average),
	}
	got := e.basicTitles(entries)

	require.Len(t, got, 1, "AVERAGE has no tier text")
	assert.Equal(t, "basic:winRate:EXTREME_HIGH", got[0].ID)
	assert.Equal(t, "Apex Predator", got[0].Label)
	assert.Equal(t, PriorityExtreme, got[0].Priority)
	assert.Equal(t, 92.0, got[0].Percentile)
}

func TestBasicTitles_ExtremeFallsBackToAdjacentTier(t *testing.T) {
	// avgLifespan defines only HIGH/LOW texts, but priority stays at the
	// player's actual extreme category.
	e := NewEngine(DefaultConfig())
	entries := map[string]model.PercentileEntry{
		extract.StatAvgLifespan: entry(6.5, 95, model.ExtremeHigh),
	}
	got := e.basicTitles(entries)

	require.Len(t, got, 1)
	assert.Equal(t, "basic:avgLifespan:HIGH", got[0].ID)
	assert.Equal(t, "Long Haul", got[0].Label)
	assert.Equal(t, PriorityExtreme, got[0].Priority)
}

func TestCampBalance_Classification(t *testing.T) {
	e := NewEngine(DefaultConfig())

	agg := newAgg("ana", 40)
	agg.Stats[extract.StatVillagerWinRate] = model.Some(55) // +3 over baseline
	agg.Stats[extract.StatWolfWinRate] = model.Some(30)     // +2 over baseline
	assert.Equal(t, BalanceBalanced, e.campBalance(agg))

	agg.Stats[extract.StatWolfWinRate] = model.Some(10) // -18, spread 21
	assert.Equal(t, BalanceSpecialist, e.campBalance(agg))

	agg.Stats[extract.StatWolfWinRate] = model.Some(16) // -12, spread 15
	assert.Equal(t, "", e.campBalance(agg), "the gray band qualifies for neither")

	agg.Stats[extract.StatWolfWinRate] = model.Null()
	assert.Equal(t, "", e.campBalance(agg), "one gated camp is not enough")
}

func TestCampAssignmentTitles(t *testing.T) {
	e := NewEngine(DefaultConfig())
	agg := newAgg("ana", 20)
	agg.CampGames[model.CampVillager] = 16 // 80%
	agg.CampGames[model.CampWolf] = 4      // 20%

	got := e.campAssignmentTitles(agg)
	require.Len(t, got, 1)
	assert.Equal(t, "campAssignment:villager", got[0].ID)
	assert.Equal(t, "Son of the Village", got[0].Label)
	assert.Equal(t, PriorityCampAssign, got[0].Priority)
	assert.InDelta(t, 80, got[0].Percentile, 0.01)
}

func TestRoleFrequencyTitles(t *testing.T) {
	e := NewEngine(DefaultConfig())

	agg := newAgg("ana", 40)
	agg.Roles["seer"] = 6       // 15% share, known label
	agg.Roles["gravedigger"] = 5 // 12.5% share, fallback label
	agg.Roles["hunter"] = 4     // below the assignment floor
	agg.Roles["witch"] = 3      // below both floors

	got := e.roleFrequencyTitles(agg)
	require.Len(t, got, 2)

	grave := titleByID(t, got, "role:gravedigger")
	assert.Equal(t, "Habitual Gravedigger", grave.Label)

	seer := titleByID(t, got, "role:seer")
	assert.Equal(t, "The Oracle", seer.Label)
	assert.InDelta(t, 15, seer.Percentile, 0.01)
}

func TestRoleFrequencyTitles_NotEvaluatedBelowGamesFloor(t *testing.T) {
	e := NewEngine(DefaultConfig())
	agg := newAgg("ana", 9)
	agg.Roles["seer"] = 9
	assert.Empty(t, e.roleFrequencyTitles(agg))
}

func TestEvaluatePlayer_SortsAndDeduplicates(t *testing.T) {
	e := NewEngine(DefaultConfig())

	agg := newAgg("ana", 60)
	agg.CampGames[model.CampVillager] = 48
	agg.CampGames[model.CampWolf] = 12
	agg.Roles["seer"] = 10

	entries := map[string]model.PercentileEntry{
		extract.StatWinRate:      entry(70, 95, model.ExtremeHigh),
		extract.StatSurvivalRate: entry(55, 80, model.High),
	}

	profile := e.EvaluatePlayer(agg, entries)
	require.NotEmpty(t, profile.Titles)

	// combo:villageLegend holds: winRate EH, survival at least HIGH,
	// 60 games.
	assert.True(t, hasTitle(profile.Titles, "combo:villageLegend"))
	assert.True(t, hasTitle(profile.Titles, "basic:winRate:EXTREME_HIGH"))
	assert.True(t, hasTitle(profile.Titles, "campAssignment:villager"))
	assert.True(t, hasTitle(profile.Titles, "role:seer"))

	for i := 1; i < len(profile.Titles); i++ {
		assert.GreaterOrEqual(t, profile.Titles[i-1].Priority, profile.Titles[i].Priority,
			"titles must be priority-sorted")
	}

	seen := make(map[string]bool)
	for _, title := range profile.Titles {
		assert.False(t, seen[title.ID], "duplicate title id %s", title.ID)
		seen[title.ID] = true
	}

	assert.Nil(t, profile.PrimaryTitle, "primary assignment belongs to the resolver")
}

func TestEvaluateAll_SkipsPlayersWithoutPercentiles(t *testing.T) {
	e := NewEngine(DefaultConfig())
	aggs := map[string]*model.AggregatedPlayerStat{
		"ana":    newAgg("ana", 60),
		"rookie": newAgg("rookie", 5),
	}
	percentiles := map[string]map[string]model.PercentileEntry{
		"ana": {extract.StatWinRate: entry(70, 95, model.ExtremeHigh)},
	}

	got := e.EvaluateAll(aggs, percentiles)
	assert.Contains(t, got, "ana")
	assert.NotContains(t, got, "rookie")
}
