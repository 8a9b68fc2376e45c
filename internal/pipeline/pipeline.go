// Package pipeline wires one dataset's matches through aggregation,
// percentile ranking, title evaluation, and primary-title resolution.
package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/lupercal/wolfstats/internal/aggregator"
	"github.com/lupercal/wolfstats/internal/extract"
	"github.com/lupercal/wolfstats/internal/model"
	"github.com/lupercal/wolfstats/internal/rank"
	"github.com/lupercal/wolfstats/internal/titles"
)

// Result is everything one dataset run produces.
type Result struct {
	Dataset       string
	TotalGames    int
	Aggregated    map[string]*model.AggregatedPlayerStat
	Distributions map[string]rank.Distribution
	Percentiles   map[string]map[string]model.PercentileEntry
	Profiles      map[string]*model.PlayerTitleProfile
}

// Pipeline holds the engines a run needs. All fields are constructed once
// at process start; the pipeline itself is stateless across runs.
type Pipeline struct {
	agg    *aggregator.Engine
	rank   *rank.Engine
	titles *titles.Engine
	log    zerolog.Logger
}

// New assembles a pipeline from a registry and title configuration.
func New(registry *extract.Registry, cfg *titles.Config, minGames int, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		agg:    aggregator.New(registry, aggregator.DefaultGates(), log),
		rank:   rank.New(minGames),
		titles: titles.NewEngine(cfg),
		log:    log,
	}
}

// Run executes the full pipeline over one dataset's matches. Pure with
// respect to the match set: re-running on identical input reproduces
// identical output.
func (p *Pipeline) Run(dataset string, matches []model.Match) *Result {
	aggs := p.agg.Aggregate(matches)
	dists := p.rank.BuildDistributions(aggs)
	percentiles := p.rank.Compute(aggs, dists)
	profiles := p.titles.EvaluateAll(aggs, percentiles)
	titles.ResolvePrimaryTitles(profiles)

	p.log.Info().
		Str("dataset", dataset).
		Int("matches", len(matches)).
		Int("players", len(aggs)).
		Int("ranked", len(percentiles)).
		Int("profiles", len(profiles)).
		Msg("pipeline run complete")

	return &Result{
		Dataset:       dataset,
		TotalGames:    len(matches),
		Aggregated:    aggs,
		Distributions: dists,
		Percentiles:   percentiles,
		Profiles:      profiles,
	}
}
