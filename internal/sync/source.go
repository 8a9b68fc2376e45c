package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/lupercal/wolfstats/internal/model"
)

// Dataset names every run computes.
const (
	DatasetMain   = "main"   // all games
	DatasetModded = "modded" // ruleset-modded games only
)

// Dataset selects which merged matches belong to a named dataset.
type Dataset struct {
	Name    string
	Include func(model.Match) bool
}

// Datasets returns the fixed dataset table, built once at startup.
func Datasets() []Dataset {
	return []Dataset{
		{Name: DatasetMain, Include: func(model.Match) bool { return true }},
		{Name: DatasetModded, Include: func(m model.Match) bool { return m.Modded }},
	}
}

// SourceConfig describes one named upstream match-log store.
type SourceConfig struct {
	Name       string
	BaseURL    string
	IndexPath  string
	Delay      time.Duration // fixed pause between file fetches
	MinPlayers int
	ValidID    func(string) bool
}

// Sources returns the named source configurations. Base URLs may be
// overridden through WOLFSTATS_SOURCE_URL_<NAME> (loaded from .env by
// the command layer).
func Sources() map[string]SourceConfig {
	cfgs := map[string]SourceConfig{
		"aws": {
			Name:       "aws",
			BaseURL:    "https://wolfstats-logs.s3.amazonaws.com",
			IndexPath:  "index.json",
			Delay:      250 * time.Millisecond,
			MinPlayers: 6,
			ValidID:    func(id string) bool { return id != "" },
		},
		"legacy": {
			Name:       "legacy",
			BaseURL:    "https://legacy.wolfstats.example.com/logs",
			IndexPath:  "manifest.json",
			Delay:      500 * time.Millisecond,
			MinPlayers: 6,
			ValidID:    func(id string) bool { return id != "" && !strings.HasPrefix(id, "test-") },
		},
	}
	for name, cfg := range cfgs {
		env := "WOLFSTATS_SOURCE_URL_" + strings.ToUpper(name)
		if url := os.Getenv(env); url != "" {
			cfg.BaseURL = url
			cfgs[name] = cfg
		}
	}
	return cfgs
}

// Client lists and fetches match-log files from one source.
type Client interface {
	ListFiles(ctx context.Context) ([]string, error)
	FetchFile(ctx context.Context, name string) ([]model.Match, error)
}

// HTTPClient fetches match-log files over HTTP with a fixed retry policy
// per file.
type HTTPClient struct {
	cfg SourceConfig
	hc  *http.Client
}

// NewHTTPClient builds a client for the given source.
func NewHTTPClient(cfg SourceConfig) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		hc:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ListFiles fetches the source's index of match-log file names.
func (c *HTTPClient) ListFiles(ctx context.Context) ([]string, error) {
	var files []string
	if err := c.getJSON(ctx, c.cfg.IndexPath, &files); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// FetchFile downloads and decodes one match-log file.
func (c *HTTPClient) FetchFile(ctx context.Context, name string) ([]model.Match, error) {
	var matches []model.Match
	if err := c.getJSON(ctx, name, &matches); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return matches, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + path
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := c.hc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				io.Copy(io.Discard, resp.Body)
				return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
			}
			return json.NewDecoder(resp.Body).Decode(out)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
