package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/movieclub/internal/config"
	"github.com/vmunix/movieclub/internal/storeclient"
	"github.com/vmunix/movieclub/internal/tmdb"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "movieclub",
	Short: "Movie club Slack bot and tools",
	Long: `movieclub - movie club Slack bot and tools

Runs the Slack bot that records TMDB links shared in the club channel,
and offers command-line access to TMDB and the movie store.

Run 'movieclubd' to start the movie store service.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("movieclub {{.Version}}\n")
}

// loadConfig loads and validates the config named by --config, or the
// discovered one.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return nil, fmt.Errorf("%w (run 'movieclub init' to create one)", err)
		}
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}

func newStoreClient(cfg *config.Config) *storeclient.Client {
	return storeclient.New(cfg.Bot.APIURL)
}

func newTMDBClient(cfg *config.Config) *tmdb.Client {
	return tmdb.NewClient(cfg.TMDB.APIKey, tmdb.WithBaseURL(cfg.TMDB.BaseURL))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
