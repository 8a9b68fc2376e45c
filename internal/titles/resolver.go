package titles

import (
	"sort"

	"github.com/lupercal/wolfstats/internal/model"
)

// claim is one player's bid for one title id.
type claim struct {
	player   string
	titleIdx int // index into the player's priority-sorted title list
	titleID  string
	strength float64
}

// claimStrength scores a bid. Being an extreme outlier in either
// direction is rewarded: low-side categories flip the percentile so the
// "worst" player outbids a merely below-average one. The title's index
// in its owner's list only breaks ties.
func claimStrength(t model.TitleInstance, titleIdx int) float64 {
	adjusted := t.Percentile
	if t.Category.LowSide() {
		adjusted = 100 - t.Percentile
	}
	return float64(t.Priority)*1000 + adjusted*10 - float64(titleIdx)
}

// ResolvePrimaryTitles assigns each player at most one primary title,
// unique across players where possible. Three passes:
//
//  1. Walk all claims by descending strength; a player's primary is their
//     first claim whose title id no stronger claim has taken.
//  2. A player left without a primary falls back to their own
//     highest-priority title, which may duplicate another player's
//     primary.
//  3. Title instances referencing an id owned by a different player are
//     annotated with the owner's name. Informational only.
//
// Profiles are mutated in place.
func ResolvePrimaryTitles(profiles map[string]*model.PlayerTitleProfile) {
	var claims []claim
	for name, p := range profiles {
		for i, t := range p.Titles {
			claims = append(claims, claim{
				player:   name,
				titleIdx: i,
				titleID:  t.ID,
				strength: claimStrength(t, i),
			})
		}
	}

	// Descending by strength; name and id ordering keep re-runs on the
	// same match set byte-identical.
	sort.Slice(claims, func(i, j int) bool {
		if claims[i].strength != claims[j].strength {
			return claims[i].strength > claims[j].strength
		}
		if claims[i].player != claims[j].player {
			return claims[i].player < claims[j].player
		}
		return claims[i].titleID < claims[j].titleID
	})

	// Pass 1: strongest unclaimed title per player.
	owner := make(map[string]string) // title id -> player
	for _, c := range claims {
		p := profiles[c.player]
		if p.PrimaryTitle != nil {
			continue
		}
		if _, taken := owner[c.titleID]; taken {
			continue
		}
		owner[c.titleID] = c.player
		t := p.Titles[c.titleIdx]
		p.PrimaryTitle = &t
	}

	// Pass 2: fallback to the player's own top title. The id may already
	// be owned elsewhere; near-uniqueness is best-effort.
	for _, p := range profiles {
		if p.PrimaryTitle == nil && len(p.Titles) > 0 {
			t := p.Titles[0]
			p.PrimaryTitle = &t
		}
	}

	// Pass 3: annotate instances whose id belongs to someone else.
	for name, p := range profiles {
		for i := range p.Titles {
			if holder, ok := owner[p.Titles[i].ID]; ok && holder != name {
				p.Titles[i].HeldBy = holder
			}
		}
		if p.PrimaryTitle != nil {
			if holder, ok := owner[p.PrimaryTitle.ID]; ok && holder != name {
				p.PrimaryTitle.HeldBy = holder
			}
		}
	}
}
