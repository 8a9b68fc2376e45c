package titles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lupercal/wolfstats/internal/extract"
	"github.com/lupercal/wolfstats/internal/model"
)

func nearMissByRule(misses []model.NearMissTitle, id string) (model.NearMissTitle, bool) {
	for _, nm := range misses {
		if nm.RuleID == id {
			return nm, true
		}
	}
	return model.NearMissTitle{}, false
}

func TestCombinationTitles_AllConditionsRequired(t *testing.T) {
	e := NewEngine(DefaultConfig())
	agg := newAgg("ana", 60)
	entries := map[string]model.PercentileEntry{
		extract.StatWinRate:      entry(70, 95, model.ExtremeHigh),
		extract.StatSurvivalRate: entry(55, 80, model.High),
	}

	got := e.combinationTitles(agg, entries)
	legend := titleByID(t, got, "combo:villageLegend")
	assert.Equal(t, PriorityExtreme, legend.Priority)
	// Mean of the two measured conditions; the virtual games condition
	// carries no percentile and is excluded.
	assert.InDelta(t, 87.5, legend.Percentile, 0.01)

	// Drop below the games floor and the rule no longer fires.
	agg.GamesPlayed = 49
	got = e.combinationTitles(agg, entries)
	assert.False(t, hasTitle(got, "combo:villageLegend"))
}

func TestCombinationTitles_AllowHigherEscalates(t *testing.T) {
	e := NewEngine(DefaultConfig())
	agg := newAgg("ana", 60)

	// Survival HIGH is the floor; EXTREME_HIGH qualifies too.
	entries := map[string]model.PercentileEntry{
		extract.StatWinRate:      entry(70, 95, model.ExtremeHigh),
		extract.StatSurvivalRate: entry(60, 93, model.ExtremeHigh),
	}
	got := e.combinationTitles(agg, entries)
	assert.True(t, hasTitle(got, "combo:villageLegend"))

	// ABOVE_AVERAGE is less extreme than the HIGH floor.
	entries[extract.StatSurvivalRate] = entry(50, 60, model.AboveAverage)
	got = e.combinationTitles(agg, entries)
	assert.False(t, hasTitle(got, "combo:villageLegend"))
}

func TestCombinationTitles_MinValueFloor(t *testing.T) {
	e := NewEngine(DefaultConfig())
	agg := newAgg("ana", 35)
	entries := map[string]model.PercentileEntry{
		extract.StatWolfWinRate: entry(38, 90, model.ExtremeHigh),
		"wolfTransformRate":     entry(80, 75, model.High),
	}

	// Percentile category qualifies but the raw value sits under 40.
	got := e.combinationTitles(agg, entries)
	assert.False(t, hasTitle(got, "combo:packAlpha"))

	entries[extract.StatWolfWinRate] = entry(45, 90, model.ExtremeHigh)
	got = e.combinationTitles(agg, entries)
	assert.True(t, hasTitle(got, "combo:packAlpha"))
}

func TestNearMiss_TwoConditionRuleWithinGap(t *testing.T) {
	e := NewEngine(DefaultConfig())
	agg := newAgg("ana", 30)

	// Restless Ghost: survival EXTREME_LOW met; win rate sits 8 points
	// above the LOW boundary (percentile 43, category BELOW_AVERAGE).
	entries := map[string]model.PercentileEntry{
		extract.StatSurvivalRate: entry(10, 8, model.ExtremeLow),
		extract.StatWinRate:      entry(40, 43, model.BelowAverage),
	}
	got := e.nearMissTitles(agg, entries, nil)

	nm, ok := nearMissByRule(got, "combo:restlessGhost")
	require.True(t, ok, "8-point gap qualifies")
	assert.Equal(t, 1, nm.Met)
	assert.Equal(t, 2, nm.Total)
	assert.InDelta(t, 8, nm.MaxGap, 0.01)

	// 12 points above the boundary: too far.
	entries[extract.StatWinRate] = entry(42, 47, model.BelowAverage)
	got = e.nearMissTitles(agg, entries, nil)
	_, ok = nearMissByRule(got, "combo:restlessGhost")
	assert.False(t, ok, "12-point gap does not qualify")
}

func TestNearMiss_AllButOneOfThree(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Village Legend with the games floor unmet; no gap cap applies for
	// three-plus conditions.
	agg := newAgg("ana", 40)
	entries := map[string]model.PercentileEntry{
		extract.StatWinRate:      entry(70, 95, model.ExtremeHigh),
		extract.StatSurvivalRate: entry(55, 80, model.High),
	}
	got := e.nearMissTitles(agg, entries, nil)

	nm, ok := nearMissByRule(got, "combo:villageLegend")
	require.True(t, ok)
	assert.Equal(t, 2, nm.Met)
	assert.Equal(t, 3, nm.Total)
}

func TestNearMiss_SkipsEarnedRules(t *testing.T) {
	e := NewEngine(DefaultConfig())
	agg := newAgg("ana", 40)
	entries := map[string]model.PercentileEntry{
		extract.StatWinRate:      entry(70, 95, model.ExtremeHigh),
		extract.StatSurvivalRate: entry(55, 80, model.High),
	}
	got := e.nearMissTitles(agg, entries, map[string]bool{"combo:villageLegend": true})
	_, ok := nearMissByRule(got, "combo:villageLegend")
	assert.False(t, ok)
}

func TestNearMiss_SortedClosestFirst(t *testing.T) {
	e := NewEngine(DefaultConfig())
	agg := newAgg("ana", 40)

	// villageLegend misses only the games floor (unmeasured gap);
	// silentBlade misses only voting accuracy, 5 points short. Equal
	// met ratio, so the smaller gap sorts first.
	entries := map[string]model.PercentileEntry{
		extract.StatWinRate:      entry(70, 95, model.ExtremeHigh),
		extract.StatSurvivalRate: entry(60, 93, model.ExtremeHigh),
		extract.StatAvgLifespan:  entry(5.5, 75, model.High),
		"votingAccuracy":         entry(55, 50, model.Average),
	}
	got := e.nearMissTitles(agg, entries, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "combo:silentBlade", got[0].RuleID)
	assert.InDelta(t, 5, got[0].MaxGap, 0.01)
	assert.Equal(t, "combo:villageLegend", got[1].RuleID)
	assert.InDelta(t, 100, got[1].MaxGap, 0.01)
}

func TestConditionGap_AverageBand(t *testing.T) {
	assert.InDelta(t, 5, conditionGap(model.Average, 40), 0.01)
	assert.InDelta(t, 7, conditionGap(model.Average, 62), 0.01)
	assert.InDelta(t, 0, conditionGap(model.Average, 50), 0.01)
}
