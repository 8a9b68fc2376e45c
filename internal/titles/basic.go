package titles

import "github.com/lupercal/wolfstats/internal/model"

// newBasicTitle builds one basic title instance with named fields; no
// struct spreading, so the resulting shape stays statically checkable.
func newBasicTitle(family BasicFamily, tier model.Category, label string, entry model.PercentileEntry) model.TitleInstance {
	return model.TitleInstance{
		ID:         "basic:" + family.Stat + ":" + string(tier),
		Type:       model.TitleBasic,
		Label:      label,
		Priority:   priorityFor(entry.Category),
		Category:   entry.Category,
		Percentile: entry.Percentile,
		Stat:       family.Stat,
	}
}

// basicTitles emits one title per (registered stat, percentile entry)
// whose category has a defined tier. An undefined extreme tier falls back
// to the adjacent high/low tier; priority always follows the player's
// actual category.
func (e *Engine) basicTitles(entries map[string]model.PercentileEntry) []model.TitleInstance {
	var out []model.TitleInstance
	for _, family := range e.cfg.Basic {
		entry, ok := entries[family.Stat]
		if !ok {
			continue
		}
		tier := entry.Category
		label, ok := family.Tiers[tier]
		if !ok {
			switch tier {
			case model.ExtremeHigh:
				tier = model.High
			case model.ExtremeLow:
				tier = model.Low
			default:
				continue
			}
			if label, ok = family.Tiers[tier]; !ok {
				continue
			}
		}
		out = append(out, newBasicTitle(family, tier, label, entry))
	}
	return out
}
