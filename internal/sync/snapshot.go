package sync

import (
	"github.com/lupercal/wolfstats/internal/model"
	"github.com/lupercal/wolfstats/internal/pipeline"
)

// snapshotDataset overwrites one dataset's cache entry with the state of
// a completed pipeline run.
func snapshotDataset(d *DatasetCache, res *pipeline.Result, matches []model.Match) {
	d.TotalGames = res.TotalGames
	d.PlayerStats = res.Aggregated
	d.SeriesState = computeSeries(matches)

	d.MapStats = make(map[string]int)
	d.CampStats = make(map[string]int)
	for _, m := range matches {
		d.MapStats[m.MapName]++
		for _, p := range m.Players {
			if p.Won {
				d.CampStats[string(p.Camp)]++
			}
		}
	}

	d.DeathStats = statColumn(res.Aggregated, "survivalRate")
	d.HunterStats = statColumn(res.Aggregated, "hunterAccuracy")
	d.VotingStats = statColumn(res.Aggregated, "votingAccuracy")
}

// computeSeries walks matches in start order and tracks each player's
// current and best win streak.
func computeSeries(matches []model.Match) map[string]SeriesState {
	ordered := make([]model.Match, len(matches))
	copy(ordered, matches)
	SortByStart(ordered)

	out := make(map[string]SeriesState)
	for _, m := range ordered {
		for _, p := range m.Players {
			s := out[p.Name]
			if p.Won {
				s.Current++
				if s.Current > s.Best {
					s.Best = s.Current
				}
			} else {
				s.Current = 0
			}
			out[p.Name] = s
		}
	}
	return out
}

// statColumn pulls one stat's non-null value per player.
func statColumn(aggs map[string]*model.AggregatedPlayerStat, stat string) map[string]float64 {
	out := make(map[string]float64)
	for name, agg := range aggs {
		if v := agg.Stat(stat); v.Valid {
			out[name] = v.Num
		}
	}
	return out
}
