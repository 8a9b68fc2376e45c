package titles

import (
	"github.com/lupercal/wolfstats/internal/extract"
	"github.com/lupercal/wolfstats/internal/model"
)

// campRateStats maps each camp to its win-rate stat name.
var campRateStats = map[model.Camp]string{
	model.CampVillager: extract.StatVillagerWinRate,
	model.CampWolf:     extract.StatWolfWinRate,
	model.CampSolo:     extract.StatSoloWinRate,
}

// campBalance classifies a player's spread of normalized camp win rates.
// Returns BalanceBalanced, BalanceSpecialist, or "" when neither applies
// or fewer than two camps have gated data.
func (e *Engine) campBalance(agg *model.AggregatedPlayerStat) string {
	var normalized []float64
	for camp, stat := range campRateStats {
		v := agg.Stat(stat)
		if !v.Valid {
			continue
		}
		normalized = append(normalized, v.Num-e.cfg.CampBaselines[camp])
	}
	if len(normalized) < 2 {
		return ""
	}
	minN, maxN := normalized[0], normalized[0]
	for _, n := range normalized[1:] {
		if n < minN {
			minN = n
		}
		if n > maxN {
			maxN = n
		}
	}
	spread := maxN - minN
	switch {
	case spread <= e.cfg.BalancedSpread:
		return BalanceBalanced
	case spread > e.cfg.SpecialistSpread:
		return BalanceSpecialist
	default:
		return ""
	}
}

// campBalanceTitles emits the BALANCED or SPECIALIST title when the
// player's normalized camp win rates qualify.
func (e *Engine) campBalanceTitles(agg *model.AggregatedPlayerStat) []model.TitleInstance {
	var label, id string
	switch e.campBalance(agg) {
	case BalanceBalanced:
		id, label = "campBalance:balanced", e.cfg.BalancedLabel
	case BalanceSpecialist:
		id, label = "campBalance:specialist", e.cfg.SpecialistLabel
	default:
		return nil
	}
	return []model.TitleInstance{{
		ID:       id,
		Type:     model.TitleCampBalance,
		Label:    label,
		Priority: PriorityCampBalance,
	}}
}

// campAssignmentTitles emits the luck-based titles on the raw share of
// games a player was dealt into each camp.
func (e *Engine) campAssignmentTitles(agg *model.AggregatedPlayerStat) []model.TitleInstance {
	if agg.GamesPlayed == 0 {
		return nil
	}
	var out []model.TitleInstance
	for _, t := range e.cfg.CampAssign {
		share := float64(agg.CampGames[t.Camp]) / float64(agg.GamesPlayed)
		if share >= t.MinShare {
			out = append(out, model.TitleInstance{
				ID:         "campAssignment:" + string(t.Camp),
				Type:       model.TitleCampAssignment,
				Label:      t.Label,
				Priority:   PriorityCampAssign,
				Percentile: share * 100,
			})
		}
	}
	return out
}
