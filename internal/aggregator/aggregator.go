// Package aggregator merges the per-axis extractor outputs into one
// aggregated stat record per player, applying the minimum-sample gates.
package aggregator

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/lupercal/wolfstats/internal/extract"
	"github.com/lupercal/wolfstats/internal/model"
)

// Gate requires a minimum sample count before a stat value is trusted.
// A player below Min on the referenced sample key gets a null value for
// the gated stat.
type Gate struct {
	Sample string
	Min    int
}

// DefaultGates returns the per-stat minimum-sample gates. Camp win rates
// need more than 5 games in camp (villager/wolf) or more than 3 (solo);
// the external axes carry their documented floors.
func DefaultGates() map[string][]Gate {
	return map[string][]Gate{
		extract.StatVillagerWinRate: {{Sample: extract.SampleVillagerGames, Min: 6}},
		extract.StatWolfWinRate:     {{Sample: extract.SampleWolfGames, Min: 6}},
		extract.StatSoloWinRate:     {{Sample: extract.SampleSoloGames, Min: 4}},
		"zoneOccupancy":             {{Sample: extract.SampleZonePositions, Min: 10}},
		"hunterAccuracy":            {{Sample: extract.SampleHunterGames, Min: 10}},
		"wolfTransformRate": {
			{Sample: extract.SampleWolfGames, Min: 5},
			{Sample: extract.SampleWolfNights, Min: 5},
		},
		"potionUsage": {{Sample: extract.SamplePotionGames, Min: 5}},
	}
}

// Engine merges extractor shapes into per-player aggregated stats.
type Engine struct {
	registry *extract.Registry
	gates    map[string][]Gate
	log      zerolog.Logger
}

// New builds an Engine. The gate table is treated as immutable.
func New(registry *extract.Registry, gates map[string][]Gate, log zerolog.Logger) *Engine {
	return &Engine{registry: registry, gates: gates, log: log}
}

// Aggregate runs every registered extractor over the match set and merges
// the results by player. One unavailable axis never fails the run; its
// stats are simply absent (gated stats become null).
func (e *Engine) Aggregate(matches []model.Match) map[string]*model.AggregatedPlayerStat {
	out := make(map[string]*model.AggregatedPlayerStat)

	// Core bookkeeping straight from the match list: games played, camp
	// and role tallies. Title families need these regardless of which
	// extractors are available.
	for _, m := range matches {
		for _, p := range m.Players {
			agg := out[p.Name]
			if agg == nil {
				agg = &model.AggregatedPlayerStat{
					Name:      p.Name,
					Stats:     make(map[string]model.Value),
					CampGames: make(map[model.Camp]int),
					Roles:     make(map[string]int),
				}
				out[p.Name] = agg
			}
			agg.GamesPlayed++
			agg.CampGames[p.Camp]++
			if p.Role != "" {
				agg.Roles[p.Role]++
			}
		}
	}

	// Samples accumulate across extractors before gating is applied.
	samples := make(map[string]map[string]int)

	type statWrite struct {
		player, stat string
		value        float64
	}
	var writes []statWrite

	for _, ex := range e.registry.All() {
		res := runExtractor(ex, matches)
		shape, ok := res.Shape()
		if !ok {
			e.log.Warn().
				Str("extractor", ex.Name).
				Str("reason", res.Reason()).
				Msg("axis unavailable, skipping its stats")
			continue
		}
		for player, counts := range shape.Samples {
			m := samples[player]
			if m == nil {
				m = make(map[string]int)
				samples[player] = m
			}
			for key, n := range counts {
				m[key] += n
			}
		}
		for player, stats := range shape.Stats {
			for stat, v := range stats {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					e.log.Warn().
						Str("extractor", ex.Name).
						Str("player", player).
						Str("stat", stat).
						Msg("dropping non-finite stat value")
					continue
				}
				writes = append(writes, statWrite{player, stat, v})
			}
		}
	}

	for _, w := range writes {
		agg := out[w.player]
		if agg == nil {
			// Extractor mentions a player absent from the match list;
			// nothing to attach the stat to.
			continue
		}
		if e.passesGates(w.player, w.stat, samples) {
			agg.Stats[w.stat] = model.Some(w.value)
		} else {
			agg.Stats[w.stat] = model.Null()
		}
	}

	// Gated stats a player never received are still written as null so
	// downstream code can tell "not applicable" from "zero".
	gatedStats := make([]string, 0, len(e.gates))
	for stat := range e.gates {
		gatedStats = append(gatedStats, stat)
	}
	sort.Strings(gatedStats)
	for _, agg := range out {
		for _, stat := range gatedStats {
			if _, ok := agg.Stats[stat]; !ok {
				agg.Stats[stat] = model.Null()
			}
		}
	}

	return out
}

// passesGates checks every gate registered for the stat against the
// player's accumulated sample counts. Stats without gates always pass.
func (e *Engine) passesGates(player, stat string, samples map[string]map[string]int) bool {
	gates := e.gates[stat]
	for _, g := range gates {
		if samples[player][g.Sample] < g.Min {
			return false
		}
	}
	return true
}

// runExtractor invokes one extractor, converting a panic into an
// Unavailable result so a broken axis cannot take down the run.
func runExtractor(ex extract.Extractor, matches []model.Match) (res extract.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = extract.Unavailable(fmt.Sprintf("panic: %v", r))
		}
	}()
	return ex.Run(matches)
}
