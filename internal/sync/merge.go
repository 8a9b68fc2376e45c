package sync

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/lupercal/wolfstats/internal/model"
)

// DefaultRecencyWindow is the trailing span within which cached matches
// are overwritten by fresher copies. Matches that completed with
// incomplete data shortly before the previous run get re-merged instead
// of skipped.
const DefaultRecencyWindow = 6 * time.Hour

// SortByStart orders matches ascending by start time, id as tie-break.
func SortByStart(matches []model.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].StartDate.Equal(matches[j].StartDate) {
			return matches[i].StartDate.Before(matches[j].StartDate)
		}
		return matches[i].ID < matches[j].ID
	})
}

// DetectNew assumes the upstream source is strictly append-only: when the
// fetched count exceeds the cached count, the last (fetched − cached)
// matches in start-time order are the new ones. Otherwise nothing is new.
func DetectNew(cachedCount int, fetched []model.Match) []model.Match {
	if len(fetched) <= cachedCount {
		return nil
	}
	ordered := make([]model.Match, len(fetched))
	copy(ordered, fetched)
	SortByStart(ordered)
	return ordered[cachedCount:]
}

// Merge is a pure function over (cached, fresh, window): a union keyed by
// match id that prefers fresh data for new ids and for cached ids whose
// end time falls inside the trailing recency window before now. Legacy
// annotation fields present on a cached entry survive the overwrite.
// Returns the merged set sorted by start time and the re-merge count.
func Merge(cached, fresh []model.Match, window time.Duration, now time.Time) ([]model.Match, int) {
	cachedByID := lo.KeyBy(cached, func(m model.Match) string { return m.ID })
	freshByID := lo.KeyBy(fresh, func(m model.Match) string { return m.ID })

	cutoff := now.Add(-window)
	reMerged := 0

	merged := make([]model.Match, 0, len(cachedByID)+len(freshByID))
	for id, c := range cachedByID {
		f, ok := freshByID[id]
		if ok && c.EndDate.After(cutoff) {
			// Recent enough that the cached copy may be incomplete.
			if f.LegacyData == nil {
				f.LegacyData = c.LegacyData
			}
			merged = append(merged, f)
			reMerged++
		} else {
			merged = append(merged, c)
		}
	}
	for id, f := range freshByID {
		if _, ok := cachedByID[id]; !ok {
			merged = append(merged, f)
		}
	}

	SortByStart(merged)
	return merged, reMerged
}

// Filter drops corrupted and out-of-contract matches before merging.
// A match without an end time is corrupted; one below the player floor or
// failing the id predicate is filtered. Both are counted, never silent.
func Filter(matches []model.Match, minPlayers int, validID func(string) bool) (kept []model.Match, corrupted, filtered int) {
	for _, m := range matches {
		switch {
		case m.EndDate.IsZero():
			corrupted++
		case len(m.Players) < minPlayers:
			filtered++
		case validID != nil && !validID(m.ID):
			filtered++
		default:
			kept = append(kept, m)
		}
	}
	return kept, corrupted, filtered
}
