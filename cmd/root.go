package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	dbPath   string
	cacheDir string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "wolfstats",
	Short: "Match-log statistics and titles tool",
	Long:  "Sync social-deduction match logs and compute per-player statistics, percentile rankings, and titles.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// .env holds optional source URL overrides; missing file is fine.
	godotenv.Load()

	defaultDir := filepath.Join(mustUserHome(), ".wolfstats")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", filepath.Join(defaultDir, "wolfstats.db"), "path to SQLite artifact store")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", defaultDir, "directory for the cache and match-log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// newLogger builds the process logger; components receive it by value.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger().
		Level(level)
}

func cachePath() string    { return filepath.Join(cacheDir, "cache.json") }
func matchLogPath() string { return filepath.Join(cacheDir, "matchlog.json") }
