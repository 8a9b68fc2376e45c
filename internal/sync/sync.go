package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lupercal/wolfstats/internal/model"
	"github.com/lupercal/wolfstats/internal/pipeline"
)

// Fatal run errors. Anything else is degraded around and counted.
var (
	ErrUnknownSource = errors.New("unknown data source")
	ErrNoFiles       = errors.New("source listed zero files")
	ErrNoFetches     = errors.New("zero files fetched")
)

// Runner orchestrates one sync run: fetch, filter, merge, compute,
// persist. Single writer; all state beyond the two output files lives in
// this struct for the duration of one run.
type Runner struct {
	cfg       SourceConfig
	client    Client
	pipe      *pipeline.Pipeline
	datasets  []Dataset
	cachePath string
	logPath   string
	window    time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewRunner wires a runner. A zero window means DefaultRecencyWindow;
// nil now means time.Now.
func NewRunner(cfg SourceConfig, client Client, pipe *pipeline.Pipeline, cachePath, logPath string, window time.Duration, log zerolog.Logger) *Runner {
	if window <= 0 {
		window = DefaultRecencyWindow
	}
	return &Runner{
		cfg:       cfg,
		client:    client,
		pipe:      pipe,
		datasets:  Datasets(),
		cachePath: cachePath,
		logPath:   logPath,
		window:    window,
		now:       time.Now,
		log:       log,
	}
}

// Run executes one sync. With full set, the cache and match log are
// ignored and rebuilt from scratch. On a fatal error the previous cache
// and match log stay untouched on disk.
func (r *Runner) Run(ctx context.Context, full bool) (*model.RunSummary, map[string]*pipeline.Result, error) {
	started := r.now()
	summary := &model.RunSummary{Source: r.cfg.Name}

	files, err := r.client.ListFiles(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list source files: %w", err)
	}
	summary.FilesListed = len(files)
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}

	// Sequential fetch with a fixed pause between requests. A failed
	// file is skipped and listed in the summary, never fatal.
	var fetched []model.Match
	for i, name := range files {
		if i > 0 && r.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(r.cfg.Delay):
			}
		}
		matches, err := r.client.FetchFile(ctx, name)
		if err != nil {
			r.log.Warn().Err(err).Str("file", name).Msg("fetch failed, skipping file")
			summary.FetchErrors = append(summary.FetchErrors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		summary.FilesFetched++
		fetched = append(fetched, matches...)
	}
	if summary.FilesFetched == 0 {
		return nil, nil, ErrNoFetches
	}
	summary.Fetched = len(fetched)

	kept, corrupted, filtered := Filter(fetched, r.cfg.MinPlayers, r.cfg.ValidID)
	summary.Corrupted = corrupted
	summary.Filtered = filtered

	ml := &model.MatchLog{}
	cache := NewCache()
	if !full {
		ml = LoadMatchLog(r.logPath, r.log)
		cache = LoadCache(r.cachePath, r.log)
	}

	newMatches := DetectNew(len(ml.GameStats), kept)
	summary.NewMatches = len(newMatches)

	merged, reMerged := Merge(ml.GameStats, kept, r.window, r.now())
	summary.ReMerged = reMerged
	summary.TotalMatches = len(merged)

	results := make(map[string]*pipeline.Result, len(r.datasets))
	for _, ds := range r.datasets {
		var slice []model.Match
		for _, m := range merged {
			if ds.Include(m) {
				slice = append(slice, m)
			}
		}
		res := r.pipe.Run(ds.Name, slice)
		results[ds.Name] = res
		snapshotDataset(cache.Dataset(ds.Name), res, slice)
	}

	if len(merged) > 0 {
		cache.LastProcessedGameID = merged[len(merged)-1].ID
	}

	ml.GameStats = merged
	switch r.cfg.Name {
	case "aws":
		ml.Sources.AWS = summary.Fetched
	case "legacy":
		ml.Sources.Legacy = summary.Fetched
	}
	ml.Sources.Merged = len(merged)

	if err := SaveMatchLog(r.logPath, ml, r.now()); err != nil {
		return nil, nil, fmt.Errorf("persist match log: %w", err)
	}
	if err := SaveCache(r.cachePath, cache); err != nil {
		return nil, nil, fmt.Errorf("persist cache: %w", err)
	}

	summary.Duration = r.now().Sub(started)
	r.log.Info().
		Str("source", r.cfg.Name).
		Int("new", summary.NewMatches).
		Int("reMerged", summary.ReMerged).
		Int("total", summary.TotalMatches).
		Dur("took", summary.Duration).
		Msg("sync complete")
	return summary, results, nil
}
