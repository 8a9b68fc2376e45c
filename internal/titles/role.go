package titles

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lupercal/wolfstats/internal/model"
)

var roleCaser = cases.Title(language.English)

// roleFrequencyTitles emits one title per role the player keeps landing
// in: at least RoleMinAssignments games in the role and at least
// RoleMinShare of their total games. Players below RoleMinGames total
// games are not evaluated.
func (e *Engine) roleFrequencyTitles(agg *model.AggregatedPlayerStat) []model.TitleInstance {
	if agg.GamesPlayed < e.cfg.RoleMinGames {
		return nil
	}

	roles := make([]string, 0, len(agg.Roles))
	for role := range agg.Roles {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var out []model.TitleInstance
	for _, role := range roles {
		count := agg.Roles[role]
		if count < e.cfg.RoleMinAssignments {
			continue
		}
		share := float64(count) / float64(agg.GamesPlayed)
		if share < e.cfg.RoleMinShare {
			continue
		}
		label, ok := e.cfg.RoleTitles[role]
		if !ok {
			label = "Habitual " + roleCaser.String(role)
		}
		out = append(out, model.TitleInstance{
			ID:         "role:" + role,
			Type:       model.TitleRoleFrequency,
			Label:      label,
			Priority:   PriorityRole,
			Percentile: share * 100,
			Stat:       role,
		})
	}
	return out
}
