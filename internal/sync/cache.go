// Package sync implements the incremental half of the pipeline: the
// versioned on-disk cache, new-match detection, the recency-window merge,
// source fetching, and run orchestration.
package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lupercal/wolfstats/internal/model"
)

// CacheVersion gates cache reuse: a mismatched on-disk version resets to
// an empty cache and forces a full recompute.
const CacheVersion = "2.0.0"

// SeriesState is a player's running win-streak bookkeeping for one dataset.
type SeriesState struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// DatasetCache is the persisted snapshot of one dataset's computed state.
type DatasetCache struct {
	TotalGames  int                                    `json:"totalGames"`
	PlayerStats map[string]*model.AggregatedPlayerStat `json:"playerStats"`
	SeriesState map[string]SeriesState                 `json:"seriesState,omitempty"`
	MapStats    map[string]int                         `json:"mapStats,omitempty"`
	DeathStats  map[string]float64                     `json:"deathStats,omitempty"`
	HunterStats map[string]float64                     `json:"hunterStats,omitempty"`
	CampStats   map[string]int                         `json:"campStats,omitempty"`
	VotingStats map[string]float64                     `json:"votingStats,omitempty"`
}

// Cache is the versioned snapshot written after each successful sync.
// On disk the dataset entries sit directly at the top level next to the
// version fields, keyed by dataset name.
type Cache struct {
	Version             string
	LastUpdated         time.Time
	LastProcessedGameID string
	Datasets            map[string]*DatasetCache
}

// NewCache returns an empty cache at the current version.
func NewCache() *Cache {
	return &Cache{
		Version:  CacheVersion,
		Datasets: make(map[string]*DatasetCache),
	}
}

// Dataset returns the named dataset entry, creating it when absent.
func (c *Cache) Dataset(name string) *DatasetCache {
	d := c.Datasets[name]
	if d == nil {
		d = &DatasetCache{PlayerStats: make(map[string]*model.AggregatedPlayerStat)}
		c.Datasets[name] = d
	}
	return d
}

func (c *Cache) MarshalJSON() ([]byte, error) {
	flat := make(map[string]json.RawMessage, len(c.Datasets)+3)
	put := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		flat[key] = raw
		return nil
	}
	if err := put("version", c.Version); err != nil {
		return nil, err
	}
	if err := put("lastUpdated", c.LastUpdated); err != nil {
		return nil, err
	}
	if err := put("lastProcessedGameId", c.LastProcessedGameID); err != nil {
		return nil, err
	}
	for name, d := range c.Datasets {
		if err := put(name, d); err != nil {
			return nil, err
		}
	}
	return json.Marshal(flat)
}

func (c *Cache) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	c.Datasets = make(map[string]*DatasetCache)
	for key, raw := range flat {
		switch key {
		case "version":
			if err := json.Unmarshal(raw, &c.Version); err != nil {
				return err
			}
		case "lastUpdated":
			if err := json.Unmarshal(raw, &c.LastUpdated); err != nil {
				return err
			}
		case "lastProcessedGameId":
			if err := json.Unmarshal(raw, &c.LastProcessedGameID); err != nil {
				return err
			}
		default:
			d := &DatasetCache{}
			if err := json.Unmarshal(raw, d); err != nil {
				return err
			}
			c.Datasets[key] = d
		}
	}
	return nil
}

// LoadCache reads the cache file. A missing file, unreadable file, or
// version mismatch all degrade to an empty cache; load never fails a run.
func LoadCache(path string, log zerolog.Logger) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("cache unreadable, starting empty")
		}
		return NewCache()
	}
	c := NewCache()
	if err := json.Unmarshal(data, c); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cache corrupt, starting empty")
		return NewCache()
	}
	if c.Version != CacheVersion {
		log.Warn().
			Str("found", c.Version).
			Str("want", CacheVersion).
			Msg("cache version mismatch, starting empty")
		return NewCache()
	}
	return c
}

// SaveCache writes the cache in one step: marshal to a temp file in the
// same directory, then rename over the target. A failed run leaves the
// previous cache untouched.
func SaveCache(path string, c *Cache) error {
	c.LastUpdated = time.Now().UTC()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	return writeAtomic(path, data)
}

// writeAtomic writes data to path via temp-file + rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
