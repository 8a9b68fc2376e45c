package titles

import (
	"sort"

	"github.com/samber/lo"

	"github.com/lupercal/wolfstats/internal/model"
)

// Engine evaluates every title family for each player of a run.
type Engine struct {
	cfg *Config
}

// NewEngine builds an engine over an immutable configuration.
func NewEngine(cfg *Config) *Engine {
	return &Engine{cfg: cfg}
}

// EvaluatePlayer runs all five rule families plus the near-miss pass for
// one player and returns the profile with a deduplicated,
// priority-sorted title list. The primary title is not assigned here;
// that is the resolver's job across all players.
func (e *Engine) EvaluatePlayer(agg *model.AggregatedPlayerStat, entries map[string]model.PercentileEntry) *model.PlayerTitleProfile {
	var titles []model.TitleInstance
	titles = append(titles, e.basicTitles(entries)...)
	titles = append(titles, e.campBalanceTitles(agg)...)
	combos := e.combinationTitles(agg, entries)
	titles = append(titles, combos...)
	titles = append(titles, e.campAssignmentTitles(agg)...)
	titles = append(titles, e.roleFrequencyTitles(agg)...)

	// Priority-descending, stable so the family emission order breaks
	// ties; then the first occurrence of each id wins.
	sort.SliceStable(titles, func(i, j int) bool {
		return titles[i].Priority > titles[j].Priority
	})
	titles = lo.UniqBy(titles, func(t model.TitleInstance) string { return t.ID })

	earned := make(map[string]bool, len(combos))
	for _, t := range combos {
		earned[t.ID] = true
	}

	return &model.PlayerTitleProfile{
		Name:       agg.Name,
		Titles:     titles,
		NearMisses: e.nearMissTitles(agg, entries, earned),
	}
}

// EvaluateAll evaluates every player with at least one percentile entry
// or aggregated record, returning profiles keyed by player name.
func (e *Engine) EvaluateAll(aggs map[string]*model.AggregatedPlayerStat, percentiles map[string]map[string]model.PercentileEntry) map[string]*model.PlayerTitleProfile {
	out := make(map[string]*model.PlayerTitleProfile, len(aggs))
	for name, agg := range aggs {
		entries := percentiles[name]
		if entries == nil {
			// Below the percentile eligibility floor.
			continue
		}
		out[name] = e.EvaluatePlayer(agg, entries)
	}
	return out
}
