// Package titles evaluates the title rule families over a run's
// aggregated stats and percentile entries, and resolves the globally
// unique primary title per player.
package titles

import (
	"github.com/lupercal/wolfstats/internal/extract"
	"github.com/lupercal/wolfstats/internal/model"
)

// Priorities per family/tier.
const (
	PriorityExtreme     = 8
	PriorityHighLow     = 6
	PriorityNearAverage = 4
	PriorityAverage     = 3
	PriorityCampBalance = 6
	PriorityCampAssign  = 3
	PriorityRole        = 3
)

// Virtual condition stats resolved outside the percentile table.
const (
	VirtualCampBalance = "campBalance"
	VirtualGamesPlayed = "gamesPlayed"
)

// Balance classifications produced by the camp-balance check.
const (
	BalanceBalanced   = "BALANCED"
	BalanceSpecialist = "SPECIALIST"
)

// BasicFamily maps one stat's percentile categories to title texts.
// Categories without a text produce no title; an undefined extreme tier
// falls back to the adjacent high/low tier.
type BasicFamily struct {
	Stat  string
	Tiers map[model.Category]string
}

// Condition is one AND-clause of a combination rule.
type Condition struct {
	Stat        string
	Target      model.Category
	AllowHigher bool // escalating minimum category: "at least as extreme"
	MinValue    float64
	HasMinValue bool
	Balance     string // target classification when Stat == VirtualCampBalance
	MinGames    int    // floor when Stat == VirtualGamesPlayed
}

// CombinationRule is a named AND of conditions.
type CombinationRule struct {
	ID         string
	Label      string
	Priority   int
	Conditions []Condition
}

// CampAssignmentTitle is a luck-based title on the share of games played
// in one camp.
type CampAssignmentTitle struct {
	Camp     model.Camp
	MinShare float64 // fraction of total games, [0, 1]
	Label    string
}

// Config is the immutable title configuration, constructed once at
// process start and passed by reference into the engine.
type Config struct {
	Basic        []BasicFamily
	Combinations []CombinationRule
	CampAssign   []CampAssignmentTitle
	RoleTitles   map[string]string

	// Camp-balance parameters. Baselines are the expected win rates per
	// camp, in percentage points.
	CampBaselines    map[model.Camp]float64
	BalancedSpread   float64
	SpecialistSpread float64
	BalancedLabel    string
	SpecialistLabel  string

	// Role-frequency parameters.
	RoleMinAssignments int
	RoleMinShare       float64
	RoleMinGames       int

	// Near-miss parameters.
	NearMissMaxGap float64
}

// DefaultConfig returns the stock title configuration.
func DefaultConfig() *Config {
	return &Config{
		Basic: []BasicFamily{
			{
				Stat: extract.StatWinRate,
				Tiers: map[model.Category]string{
					model.ExtremeHigh:  "Apex Predator",
					model.High:         "Seasoned Winner",
					model.AboveAverage: "Steady Hand",
					model.BelowAverage: "Slow Starter",
					model.Low:          "Hard-Luck Case",
					model.ExtremeLow:   "Cursed",
				},
			},
			{
				Stat: extract.StatSurvivalRate,
				Tiers: map[model.Category]string{
					model.ExtremeHigh: "The Untouchable",
					model.High:        "Slippery Survivor",
					model.Low:         "Night-One Regular",
					model.ExtremeLow:  "First Blood Magnet",
				},
			},
			{
				Stat: extract.StatAvgLifespan,
				Tiers: map[model.Category]string{
					model.High: "Long Haul",
					model.Low:  "Short Candle",
				},
			},
			{
				Stat: "hunterAccuracy",
				Tiers: map[model.Category]string{
					model.ExtremeHigh: "Dead-Eye",
					model.ExtremeLow:  "Stray Bullet",
				},
			},
			{
				Stat: "votingAccuracy",
				Tiers: map[model.Category]string{
					model.ExtremeHigh: "Wolf Whisperer",
					model.High:        "Sharp Juror",
					model.Low:         "Gullible Juror",
					model.ExtremeLow:  "Wolves' Favorite Voter",
				},
			},
			{
				Stat: "wolfTransformRate",
				Tiers: map[model.Category]string{
					model.ExtremeHigh: "Moon-Touched",
					model.ExtremeLow:  "Reluctant Beast",
				},
			},
		},
		Combinations: []CombinationRule{
			{
				ID:       "combo:villageLegend",
				Label:    "Village Legend",
				Priority: PriorityExtreme,
				Conditions: []Condition{
					{Stat: extract.StatWinRate, Target: model.ExtremeHigh},
					{Stat: extract.StatSurvivalRate, Target: model.High, AllowHigher: true},
					{Stat: VirtualGamesPlayed, MinGames: 50},
				},
			},
			{
				ID:       "combo:restlessGhost",
				Label:    "Restless Ghost",
				Priority: PriorityExtreme,
				Conditions: []Condition{
					{Stat: extract.StatSurvivalRate, Target: model.ExtremeLow},
					{Stat: extract.StatWinRate, Target: model.Low, AllowHigher: true},
				},
			},
			{
				ID:       "combo:allRounder",
				Label:    "All-Rounder",
				Priority: PriorityExtreme,
				Conditions: []Condition{
					{Stat: VirtualCampBalance, Balance: BalanceBalanced},
					{Stat: extract.StatWinRate, Target: model.High, AllowHigher: true},
				},
			},
			{
				ID:       "combo:packAlpha",
				Label:    "Pack Alpha",
				Priority: PriorityExtreme,
				Conditions: []Condition{
					{Stat: extract.StatWolfWinRate, Target: model.ExtremeHigh, MinValue: 40, HasMinValue: true},
					{Stat: "wolfTransformRate", Target: model.High, AllowHigher: true},
					{Stat: VirtualGamesPlayed, MinGames: 30},
				},
			},
			{
				ID:       "combo:silentBlade",
				Label:    "Silent Blade",
				Priority: PriorityExtreme,
				Conditions: []Condition{
					{Stat: extract.StatSurvivalRate, Target: model.ExtremeHigh},
					{Stat: extract.StatAvgLifespan, Target: model.High, AllowHigher: true},
					{Stat: "votingAccuracy", Target: model.AboveAverage, AllowHigher: true},
				},
			},
		},
		CampAssign: []CampAssignmentTitle{
			{Camp: model.CampVillager, MinShare: 0.75, Label: "Son of the Village"},
			{Camp: model.CampWolf, MinShare: 0.45, Label: "Pack Regular"},
			{Camp: model.CampSolo, MinShare: 0.20, Label: "Lone Operator"},
		},
		RoleTitles: map[string]string{
			"seer":      "The Oracle",
			"hunter":    "Quick Trigger",
			"witch":     "Potion Peddler",
			"guard":     "Night Watchman",
			"idiot":     "Village Fool",
			"cupid":     "Matchmaker",
			"wolf":      "Born Lupine",
			"whitewolf": "Lone Fang",
		},
		CampBaselines: map[model.Camp]float64{
			model.CampVillager: 52,
			model.CampWolf:     28,
			model.CampSolo:     20,
		},
		BalancedSpread:   10,
		SpecialistSpread: 15,
		BalancedLabel:    "Jack of All Camps",
		SpecialistLabel:  "Camp Specialist",

		RoleMinAssignments: 5,
		RoleMinShare:       0.12,
		RoleMinGames:       10,

		NearMissMaxGap: 10,
	}
}

// priorityFor maps a percentile category to its basic-title priority.
func priorityFor(c model.Category) int {
	switch c {
	case model.ExtremeHigh, model.ExtremeLow:
		return PriorityExtreme
	case model.High, model.Low:
		return PriorityHighLow
	case model.AboveAverage, model.BelowAverage:
		return PriorityNearAverage
	default:
		return PriorityAverage
	}
}
