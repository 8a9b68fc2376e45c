// Package rank builds per-stat value distributions over the eligible
// player pool and computes percentile ranks with qualitative categories.
package rank

import (
	"math"
	"sort"

	"github.com/lupercal/wolfstats/internal/model"
)

// DefaultMinGames is the games-played floor for a player to enter any
// distribution and receive percentiles.
const DefaultMinGames = 25

// Distribution is the ascending sorted set of one stat's eligible values.
// Never mutated after construction.
type Distribution struct {
	Stat   string
	Values []float64
}

// Engine computes distributions and percentile entries for a run.
type Engine struct {
	minGames int
}

// New builds an Engine with the given eligibility floor; floor <= 0
// falls back to DefaultMinGames.
func New(minGames int) *Engine {
	if minGames <= 0 {
		minGames = DefaultMinGames
	}
	return &Engine{minGames: minGames}
}

// MinGames returns the eligibility floor.
func (e *Engine) MinGames() int { return e.minGames }

// Eligible reports whether the player enters distributions at all.
func (e *Engine) Eligible(agg *model.AggregatedPlayerStat) bool {
	return agg != nil && agg.GamesPlayed >= e.minGames
}

// BuildDistributions collects every eligible player's non-null, finite
// value for each stat and sorts ascending. Ties keep the original player
// order (stable sort over the name-ordered pool).
func (e *Engine) BuildDistributions(aggs map[string]*model.AggregatedPlayerStat) map[string]Distribution {
	names := make([]string, 0, len(aggs))
	for name := range aggs {
		names = append(names, name)
	}
	sort.Strings(names)

	byStat := make(map[string][]float64)
	for _, name := range names {
		agg := aggs[name]
		if !e.Eligible(agg) {
			continue
		}
		for stat, v := range agg.Stats {
			if !v.Valid || math.IsNaN(v.Num) {
				continue
			}
			byStat[stat] = append(byStat[stat], v.Num)
		}
	}

	out := make(map[string]Distribution, len(byStat))
	for stat, values := range byStat {
		sort.Stable(sort.Float64Slice(values))
		out[stat] = Distribution{Stat: stat, Values: values}
	}
	return out
}

// Percentile returns the percentile of v within the ascending sorted
// values: 100 when v sits at or above the maximum, otherwise the index
// of the first element at or above v, scaled to [0, 100]. Duplicated
// minima all rank 0; a shared worst value stays at the extreme.
func Percentile(v float64, values []float64) float64 {
	n := len(values)
	if n == 0 || v >= values[n-1] {
		return 100
	}
	i := sort.Search(n, func(j int) bool { return values[j] >= v })
	return float64(i) / float64(n) * 100
}

// Categorize maps a percentile to its qualitative bucket. High-side
// checks run first, so everything strictly between 45 and 55 lands in
// AVERAGE.
func Categorize(p float64) model.Category {
	switch {
	case p >= 85:
		return model.ExtremeHigh
	case p >= 65:
		return model.High
	case p >= 55:
		return model.AboveAverage
	case p <= 15:
		return model.ExtremeLow
	case p <= 35:
		return model.Low
	case p <= 45:
		return model.BelowAverage
	default:
		return model.Average
	}
}

// Compute returns a percentile entry for every (eligible player, non-null
// stat) pair.
func (e *Engine) Compute(aggs map[string]*model.AggregatedPlayerStat, dists map[string]Distribution) map[string]map[string]model.PercentileEntry {
	out := make(map[string]map[string]model.PercentileEntry)
	for name, agg := range aggs {
		if !e.Eligible(agg) {
			continue
		}
		entries := make(map[string]model.PercentileEntry)
		for stat, v := range agg.Stats {
			if !v.Valid || math.IsNaN(v.Num) {
				continue
			}
			dist, ok := dists[stat]
			if !ok {
				continue
			}
			p := Percentile(v.Num, dist.Values)
			entries[stat] = model.PercentileEntry{
				Value:      v.Num,
				Percentile: p,
				Category:   Categorize(p),
			}
		}
		out[name] = entries
	}
	return out
}
