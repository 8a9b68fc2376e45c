package extract

import "github.com/lupercal/wolfstats/internal/model"

// Canonical stat names shared by the built-in extractors, the gating
// table, and the title configuration.
const (
	StatWinRate         = "winRate"
	StatVillagerWinRate = "campVillagerWinRate"
	StatWolfWinRate     = "campWolfWinRate"
	StatSoloWinRate     = "campSoloWinRate"
	StatSurvivalRate    = "survivalRate"
	StatAvgLifespan     = "avgLifespan"
)

// Sample-count keys checked by the gating rules.
const (
	SampleVillagerGames = "campVillagerGames"
	SampleWolfGames     = "campWolfGames"
	SampleSoloGames     = "campSoloGames"
	SampleZonePositions = "zonePositions"
	SampleHunterGames   = "hunterGames"
	SampleWolfNights    = "wolfNights"
	SamplePotionGames   = "potionGames"
)

// Core extracts the win-rate axis: overall win rate plus per-camp win
// rates, with the per-camp game counts the gates require. Rates are
// percentages in [0, 100].
func Core(matches []model.Match) Result {
	shape := NewShape()

	type tally struct {
		games, wins int
		campGames   map[model.Camp]int
		campWins    map[model.Camp]int
	}
	tallies := make(map[string]*tally)

	for _, m := range matches {
		for _, p := range m.Players {
			t := tallies[p.Name]
			if t == nil {
				t = &tally{
					campGames: make(map[model.Camp]int),
					campWins:  make(map[model.Camp]int),
				}
				tallies[p.Name] = t
			}
			t.games++
			t.campGames[p.Camp]++
			if p.Won {
				t.wins++
				t.campWins[p.Camp]++
			}
		}
	}

	campStats := map[model.Camp]struct{ stat, sample string }{
		model.CampVillager: {StatVillagerWinRate, SampleVillagerGames},
		model.CampWolf:     {StatWolfWinRate, SampleWolfGames},
		model.CampSolo:     {StatSoloWinRate, SampleSoloGames},
	}

	for name, t := range tallies {
		if t.games == 0 {
			continue
		}
		shape.SetStat(name, StatWinRate, float64(t.wins)/float64(t.games)*100)
		for camp, keys := range campStats {
			games := t.campGames[camp]
			shape.AddSample(name, keys.sample, games)
			if games > 0 {
				shape.SetStat(name, keys.stat, float64(t.campWins[camp])/float64(games)*100)
			}
		}
	}

	return Ok(shape)
}

// Survival extracts the survival axis: survival rate (games ending with
// the player alive) and average lifespan in nights for games where the
// player died.
func Survival(matches []model.Match) Result {
	type tally struct {
		games, survived int
		deathNights     int
		deaths          int
	}
	tallies := make(map[string]*tally)

	for _, m := range matches {
		for _, p := range m.Players {
			t := tallies[p.Name]
			if t == nil {
				t = &tally{}
				tallies[p.Name] = t
			}
			t.games++
			if p.DeathNight == 0 {
				t.survived++
			} else {
				t.deaths++
				t.deathNights += p.DeathNight
			}
		}
	}

	shape := NewShape()
	for name, t := range tallies {
		if t.games == 0 {
			continue
		}
		shape.SetStat(name, StatSurvivalRate, float64(t.survived)/float64(t.games)*100)
		if t.deaths > 0 {
			shape.SetStat(name, StatAvgLifespan, float64(t.deathNights)/float64(t.deaths))
		}
	}
	return Ok(shape)
}
