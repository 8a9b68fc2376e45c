// Package model defines the shared data types for the wolfstats pipeline:
// raw match logs, aggregated player statistics, percentile entries, and
// title artifacts.
package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Camp is the side a player fought for in one match.
type Camp string

const (
	CampVillager Camp = "villager"
	CampWolf     Camp = "wolf"
	CampSolo     Camp = "solo"
)

// ---- Raw match log ----

// PlayerAction is one recorded in-game action (vote, shot, loot, brew, ...).
type PlayerAction struct {
	Kind   string  `json:"Kind"`
	Night  int     `json:"Night,omitempty"`
	Target string  `json:"Target,omitempty"`
	Value  float64 `json:"Value,omitempty"`
}

// PlayerRecord is one player's participation in one match. Owned by its Match.
type PlayerRecord struct {
	Name       string         `json:"Name"`
	Role       string         `json:"Role"`
	Camp       Camp           `json:"Camp"`
	Won        bool           `json:"Won"`
	DeathNight int            `json:"DeathNight,omitempty"` // 0 = survived
	DeathCause string         `json:"DeathCause,omitempty"`
	Actions    []PlayerAction `json:"Actions,omitempty"`
}

// Match is one completed game. Immutable once ingested; identified by Id.
type Match struct {
	ID        string         `json:"Id"`
	StartDate time.Time      `json:"StartDate"`
	EndDate   time.Time      `json:"EndDate,omitzero"`
	MapName   string         `json:"MapName"`
	Modded    bool           `json:"Modded"` // ruleset-variant flag
	Players   []PlayerRecord `json:"Players"`

	// LegacyData carries annotation fields written by earlier tooling.
	// The sync merger preserves them when a cached match is overwritten
	// by a fresher copy.
	LegacyData map[string]string `json:"LegacyData,omitempty"`
}

// MatchLog is the persisted match-log dataset envelope. GameStats is
// append-only by convention and sorted by start time on every write.
type MatchLog struct {
	ModVersion   string    `json:"ModVersion"`
	TotalRecords int       `json:"TotalRecords"`
	Sources      Sources   `json:"Sources"`
	LastSync     time.Time `json:"LastSync"`
	GameStats    []Match   `json:"GameStats"`
}

// Sources counts where the merged log's entries came from.
type Sources struct {
	Legacy int `json:"Legacy"`
	AWS    int `json:"AWS"`
	Merged int `json:"Merged"`
}

// ---- Nullable stat values ----

// Value is a nullable statistic. A below-threshold stat is stored as an
// invalid Value (JSON null), not omitted, so readers can tell "not
// applicable" apart from "zero".
type Value struct {
	Num   float64
	Valid bool
}

// Some returns a valid Value.
func Some(v float64) Value { return Value{Num: v, Valid: true} }

// Null returns an invalid (null) Value.
func Null() Value { return Value{} }

// Or returns the stat value, or fallback when the Value is null.
func (v Value) Or(fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.Num
}

var nullLiteral = []byte("null")

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return nullLiteral, nil
	}
	return json.Marshal(v.Num)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		*v = Value{}
		return nil
	}
	if err := json.Unmarshal(data, &v.Num); err != nil {
		return err
	}
	v.Valid = true
	return nil
}

func (v Value) String() string {
	if !v.Valid {
		return "null"
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

// ---- Aggregated statistics ----

// AggregatedPlayerStat is one player's cumulative stat set across all
// eligible matches of a dataset. Rebuilt from scratch each run.
type AggregatedPlayerStat struct {
	Name        string           `json:"playerName"`
	GamesPlayed int              `json:"gamesPlayed"`
	Stats       map[string]Value `json:"stats"`

	// Bookkeeping the title families need alongside the numeric stats.
	CampGames map[Camp]int   `json:"campGames,omitempty"`
	Roles     map[string]int `json:"roles,omitempty"`
}

// Stat returns the named stat, or a null Value when it was never written.
func (a *AggregatedPlayerStat) Stat(name string) Value {
	if a == nil || a.Stats == nil {
		return Value{}
	}
	return a.Stats[name]
}

// ---- Percentiles ----

// Category is one of seven ordered qualitative buckets derived from a
// player's percentile rank on a stat.
type Category string

const (
	ExtremeLow   Category = "EXTREME_LOW"
	Low          Category = "LOW"
	BelowAverage Category = "BELOW_AVERAGE"
	Average      Category = "AVERAGE"
	AboveAverage Category = "ABOVE_AVERAGE"
	High         Category = "HIGH"
	ExtremeHigh  Category = "EXTREME_HIGH"
)

// LowSide reports whether the category represents an undesirable extreme
// on the low end of a distribution.
func (c Category) LowSide() bool {
	return c == ExtremeLow || c == Low || c == BelowAverage
}

// HighSide reports whether the category sits above AVERAGE.
func (c Category) HighSide() bool {
	return c == AboveAverage || c == High || c == ExtremeHigh
}

// extremeness orders categories by distance from AVERAGE within one side.
var extremeness = map[Category]int{
	Average:      0,
	AboveAverage: 1, BelowAverage: 1,
	High: 2, Low: 2,
	ExtremeHigh: 3, ExtremeLow: 3,
}

// AtLeastAsExtremeAs reports whether c is on the same side as target and
// at least as far from AVERAGE. Used by combination rules with an
// escalating minimum category.
func (c Category) AtLeastAsExtremeAs(target Category) bool {
	if c == target {
		return true
	}
	sameSide := (c.HighSide() && target.HighSide()) || (c.LowSide() && target.LowSide())
	return sameSide && extremeness[c] >= extremeness[target]
}

// PercentileEntry is one (player, stat) percentile result.
type PercentileEntry struct {
	Value      float64  `json:"value"`
	Percentile float64  `json:"percentile"`
	Category   Category `json:"category"`
}

// ---- Titles ----

// TitleType identifies which rule family produced a title instance.
type TitleType string

const (
	TitleBasic          TitleType = "basic"
	TitleCampBalance    TitleType = "campBalance"
	TitleCombination    TitleType = "combination"
	TitleCampAssignment TitleType = "campAssignment"
	TitleRoleFrequency  TitleType = "roleFrequency"
)

// ConditionResult records how one combination-rule condition evaluated
// for a player.
type ConditionResult struct {
	Stat       string   `json:"stat"`
	Target     Category `json:"target"`
	Met        bool     `json:"met"`
	Percentile float64  `json:"percentile"`
	Gap        float64  `json:"gap"` // percentile points needed to flip fail -> pass
}

// TitleInstance is a candidate title earned by one player in one run.
// Transient; recomputed each run.
type TitleInstance struct {
	ID         string            `json:"id"`
	Type       TitleType         `json:"type"`
	Label      string            `json:"label"`
	Priority   int               `json:"priority"`
	Category   Category          `json:"category,omitempty"`
	Percentile float64           `json:"percentile"`
	Stat       string            `json:"stat,omitempty"`
	Conditions []ConditionResult `json:"conditions,omitempty"`

	// HeldBy names the player who owns this title id as their primary
	// title, when that player is someone else. Informational only.
	HeldBy string `json:"heldBy,omitempty"`
}

// NearMissTitle is a combination title the player almost qualified for.
type NearMissTitle struct {
	RuleID     string            `json:"ruleId"`
	Label      string            `json:"label"`
	Met        int               `json:"met"`
	Total      int               `json:"total"`
	MaxGap     float64           `json:"maxGap"`
	Conditions []ConditionResult `json:"conditions"`
}

// PlayerTitleProfile is the per-player output record of a pipeline run.
type PlayerTitleProfile struct {
	Name         string          `json:"playerId"`
	Titles       []TitleInstance `json:"titles"`
	PrimaryTitle *TitleInstance  `json:"primaryTitle,omitempty"`
	NearMisses   []NearMissTitle `json:"nearMissTitles,omitempty"`
}

// ---- Run bookkeeping ----

// RunSummary collects per-run counters for the sync command's report.
type RunSummary struct {
	Source       string        `json:"source"`
	FilesListed  int           `json:"filesListed"`
	FilesFetched int           `json:"filesFetched"`
	FetchErrors  []string      `json:"fetchErrors,omitempty"`
	Fetched      int           `json:"fetched"`
	Corrupted    int           `json:"corrupted"`
	Filtered     int           `json:"filtered"`
	NewMatches   int           `json:"newMatches"`
	ReMerged     int           `json:"reMerged"`
	TotalMatches int           `json:"totalMatches"`
	Duration     time.Duration `json:"duration"`
}
