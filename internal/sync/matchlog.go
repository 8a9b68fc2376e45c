package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/lupercal/wolfstats/internal/model"
)

// modVersion stamps the match-log envelope.
const modVersion = "1.4"

// LoadMatchLog reads the persisted match-log dataset. A missing or
// unreadable file degrades to an empty log.
func LoadMatchLog(path string, log zerolog.Logger) *model.MatchLog {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("match log unreadable, starting empty")
		}
		return &model.MatchLog{ModVersion: modVersion}
	}
	var ml model.MatchLog
	if err := json.Unmarshal(data, &ml); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("match log corrupt, starting empty")
		return &model.MatchLog{ModVersion: modVersion}
	}
	return &ml
}

// SaveMatchLog writes the envelope atomically, sorting GameStats by start
// time first per the append-only convention.
func SaveMatchLog(path string, ml *model.MatchLog, now time.Time) error {
	SortByStart(ml.GameStats)
	ml.ModVersion = modVersion
	ml.TotalRecords = len(ml.GameStats)
	ml.LastSync = now.UTC()
	data, err := json.MarshalIndent(ml, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal match log: %w", err)
	}
	return writeAtomic(path, data)
}
