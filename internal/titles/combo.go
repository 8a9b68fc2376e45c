package titles

import (
	"sort"

	"github.com/lupercal/wolfstats/internal/model"
)

// unmeasuredGap is the gap recorded for a failed condition that has no
// percentile axis to close (virtual conditions, missing entries, raw
// value floors). Such a condition can never make a rule a near-miss on
// its own.
const unmeasuredGap = 100

// categoryThreshold is the percentile boundary of each non-average
// category, used to compute how far a failed condition was from passing.
var categoryThreshold = map[model.Category]float64{
	model.ExtremeHigh:  85,
	model.High:         65,
	model.AboveAverage: 55,
	model.ExtremeLow:   15,
	model.Low:          35,
	model.BelowAverage: 45,
}

// conditionGap returns the percentile points needed to flip a failed
// condition to passing, clipped at zero.
func conditionGap(target model.Category, actual float64) float64 {
	threshold, ok := categoryThreshold[target]
	if !ok {
		// AVERAGE target: distance into the (45, 55) band.
		switch {
		case actual <= 45:
			return 45 - actual
		case actual >= 55:
			return actual - 55
		default:
			return 0
		}
	}
	var gap float64
	if target.LowSide() {
		gap = actual - threshold
	} else {
		gap = threshold - actual
	}
	if gap < 0 {
		gap = 0
	}
	return gap
}

// evalCondition resolves one condition for a player. Virtual stats
// (campBalance, gamesPlayed) bypass the percentile table; a regular stat
// with no percentile entry fails.
func (e *Engine) evalCondition(c Condition, agg *model.AggregatedPlayerStat, entries map[string]model.PercentileEntry) model.ConditionResult {
	res := model.ConditionResult{Stat: c.Stat, Target: c.Target, Gap: unmeasuredGap}

	switch c.Stat {
	case VirtualCampBalance:
		res.Met = e.campBalance(agg) == c.Balance
		if res.Met {
			res.Gap = 0
		}
		return res
	case VirtualGamesPlayed:
		res.Met = agg.GamesPlayed >= c.MinGames
		if res.Met {
			res.Gap = 0
		}
		return res
	}

	entry, ok := entries[c.Stat]
	if !ok {
		return res
	}
	res.Percentile = entry.Percentile

	categoryMet := entry.Category == c.Target
	if !categoryMet && c.AllowHigher {
		categoryMet = entry.Category.AtLeastAsExtremeAs(c.Target)
	}
	valueMet := !c.HasMinValue || entry.Value >= c.MinValue

	res.Met = categoryMet && valueMet
	switch {
	case res.Met:
		res.Gap = 0
	case categoryMet && !valueMet:
		// Failed on the raw value floor; no percentile distance applies.
		res.Gap = unmeasuredGap
	default:
		res.Gap = conditionGap(c.Target, entry.Percentile)
	}
	return res
}

// evalRule resolves every condition of a rule for one player.
func (e *Engine) evalRule(rule CombinationRule, agg *model.AggregatedPlayerStat, entries map[string]model.PercentileEntry) []model.ConditionResult {
	results := make([]model.ConditionResult, 0, len(rule.Conditions))
	for _, c := range rule.Conditions {
		results = append(results, e.evalCondition(c, agg, entries))
	}
	return results
}

// combinationTitles emits a title for every rule whose conditions all
// hold. The title percentile is the mean of the participating conditions'
// percentiles; conditions sitting at percentile 0 are excluded from the
// mean. That also excludes conditions that never had percentile data
// (both default to 0 upstream); kept as-is for output compatibility.
func (e *Engine) combinationTitles(agg *model.AggregatedPlayerStat, entries map[string]model.PercentileEntry) []model.TitleInstance {
	var out []model.TitleInstance
	for _, rule := range e.cfg.Combinations {
		results := e.evalRule(rule, agg, entries)
		met := countMet(results)
		if met < len(results) {
			continue
		}

		var sum float64
		var n int
		for _, r := range results {
			if r.Percentile == 0 {
				continue
			}
			sum += r.Percentile
			n++
		}
		var mean float64
		if n > 0 {
			mean = sum / float64(n)
		}

		out = append(out, model.TitleInstance{
			ID:         rule.ID,
			Type:       model.TitleCombination,
			Label:      rule.Label,
			Priority:   rule.Priority,
			Percentile: mean,
			Conditions: results,
		})
	}
	return out
}

// nearMissTitles flags combination rules the player almost earned:
// either all but exactly one of three-plus conditions hold, or exactly
// one of two conditions holds and the unmet one is within the configured
// gap. Earned rule ids are skipped.
func (e *Engine) nearMissTitles(agg *model.AggregatedPlayerStat, entries map[string]model.PercentileEntry, earned map[string]bool) []model.NearMissTitle {
	var out []model.NearMissTitle
	for _, rule := range e.cfg.Combinations {
		if earned[rule.ID] {
			continue
		}
		results := e.evalRule(rule, agg, entries)
		total := len(results)
		met := countMet(results)

		qualifies := false
		switch {
		case total >= 3 && met == total-1:
			qualifies = true
		case total == 2 && met == 1:
			qualifies = maxUnmetGap(results) <= e.cfg.NearMissMaxGap
		}
		if !qualifies {
			continue
		}

		out = append(out, model.NearMissTitle{
			RuleID:     rule.ID,
			Label:      rule.Label,
			Met:        met,
			Total:      total,
			MaxGap:     maxUnmetGap(results),
			Conditions: results,
		})
	}

	// Closest first: conditions-met ratio descending, then the largest
	// remaining gap ascending.
	sort.SliceStable(out, func(i, j int) bool {
		ri := float64(out[i].Met) / float64(out[i].Total)
		rj := float64(out[j].Met) / float64(out[j].Total)
		if ri != rj {
			return ri > rj
		}
		return out[i].MaxGap < out[j].MaxGap
	})
	return out
}

func countMet(results []model.ConditionResult) int {
	n := 0
	for _, r := range results {
		if r.Met {
			n++
		}
	}
	return n
}

func maxUnmetGap(results []model.ConditionResult) float64 {
	var max float64
	for _, r := range results {
		if !r.Met && r.Gap > max {
			max = r.Gap
		}
	}
	return max
}
