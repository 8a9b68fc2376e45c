package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lupercal/wolfstats/internal/model"
)

func TestPercentile_MaxRanksHundred(t *testing.T) {
	dists := [][]float64{
		{10, 20, 30, 40},
		{5},
		{1, 1, 2, 3, 3, 3},
	}
	for _, d := range dists {
		assert.Equal(t, 100.0, Percentile(d[len(d)-1], d))
	}
}

func TestPercentile_MinBounded(t *testing.T) {
	dists := [][]float64{
		{10, 20, 30, 40, 50},
		{1, 1, 2, 3},
		{7, 7, 7, 8},
	}
	for _, d := range dists {
		p := Percentile(d[0], d)
		assert.LessOrEqual(t, p, 100.0/float64(len(d)), "dist %v", d)
	}
}

func TestPercentile_DuplicatedMinimumRanksZero(t *testing.T) {
	// A cluster of equally-worst values must not escape the low extreme.
	d := []float64{1, 1, 2, 3}
	assert.Equal(t, 0.0, Percentile(1, d))
	assert.Equal(t, model.ExtremeLow, Categorize(Percentile(1, d)))
}

func TestPercentile_AboveAll(t *testing.T) {
	d := []float64{10, 20, 30}
	assert.Equal(t, 100.0, Percentile(99, d))
}

func TestPercentile_Midpoints(t *testing.T) {
	d := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	// Four values sit strictly below 50.
	assert.Equal(t, 40.0, Percentile(50, d))
	assert.Equal(t, 0.0, Percentile(10, d))
	assert.Equal(t, 80.0, Percentile(90, d))
}

func TestCategorize_Boundaries(t *testing.T) {
	cases := []struct {
		p    float64
		want model.Category
	}{
		{100, model.ExtremeHigh},
		{85, model.ExtremeHigh},
		{84.9, model.High},
		{65, model.High},
		{64.9, model.AboveAverage},
		{55, model.AboveAverage},
		{54.9, model.Average},
		{50, model.Average},
		{45.1, model.Average},
		{45, model.BelowAverage},
		{35.1, model.BelowAverage},
		{35, model.Low},
		{15.1, model.Low},
		{15, model.ExtremeLow},
		{0, model.ExtremeLow},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Categorize(c.p), "percentile %.1f", c.p)
	}
}

func makeAgg(name string, games int, stats map[string]model.Value) *model.AggregatedPlayerStat {
	return &model.AggregatedPlayerStat{Name: name, GamesPlayed: games, Stats: stats}
}

func TestBuildDistributions_EligibilityAndNulls(t *testing.T) {
	e := New(25)
	aggs := map[string]*model.AggregatedPlayerStat{
		"vet": makeAgg("vet", 40, map[string]model.Value{
			"winRate":        model.Some(60),
			"hunterAccuracy": model.Null(),
		}),
		"vet2": makeAgg("vet2", 25, map[string]model.Value{
			"winRate": model.Some(40),
		}),
		"rookie": makeAgg("rookie", 24, map[string]model.Value{
			"winRate": model.Some(99),
		}),
	}

	dists := e.BuildDistributions(aggs)
	require.Contains(t, dists, "winRate")
	// The rookie is below the floor; the null hunter accuracy never
	// enters any distribution.
	assert.Equal(t, []float64{40, 60}, dists["winRate"].Values)
	assert.NotContains(t, dists, "hunterAccuracy")
}

func TestCompute_SkipsIneligibleAndNull(t *testing.T) {
	e := New(25)
	aggs := map[string]*model.AggregatedPlayerStat{
		"vet": makeAgg("vet", 30, map[string]model.Value{
			"winRate":        model.Some(60),
			"hunterAccuracy": model.Null(),
		}),
		"vet2":   makeAgg("vet2", 30, map[string]model.Value{"winRate": model.Some(40)}),
		"rookie": makeAgg("rookie", 5, map[string]model.Value{"winRate": model.Some(99)}),
	}
	dists := e.BuildDistributions(aggs)
	entries := e.Compute(aggs, dists)

	require.Contains(t, entries, "vet")
	assert.NotContains(t, entries, "rookie")
	assert.NotContains(t, entries["vet"], "hunterAccuracy")

	top := entries["vet"]["winRate"]
	assert.Equal(t, 100.0, top.Percentile)
	assert.Equal(t, model.ExtremeHigh, top.Category)
}
