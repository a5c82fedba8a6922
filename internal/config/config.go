// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	TMDB   TMDBConfig   `toml:"tmdb"`
	Slack  SlackConfig  `toml:"slack"`
	Bot    BotConfig    `toml:"bot"`
	Cache  CacheConfig  `toml:"cache"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// StoreConfig selects the movie store backend.
type StoreConfig struct {
	Backend  string `toml:"backend"`  // file or sqlite
	DataDir  string `toml:"data_dir"` // file backend
	Database string `toml:"database"` // sqlite backend
}

type TMDBConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

type SlackConfig struct {
	BotToken       string `toml:"bot_token"`
	AppToken       string `toml:"app_token"`
	ChannelID      string `toml:"channel_id"`
	Reaction       string `toml:"reaction"`
	RejectReaction string `toml:"reject_reaction"`
}

type BotConfig struct {
	APIURL         string `toml:"api_url"`
	ProcessedURLs  string `toml:"processed_urls"`
	PageSize       int    `toml:"page_size"`
	Workers        int    `toml:"workers"`
	WatchProcessed bool   `toml:"watch_processed"`
}

// CacheConfig tunes the bot's read caches. Zero values take the defaults.
type CacheConfig struct {
	UserTTL          time.Duration `toml:"user_ttl"`
	UserSize         int           `toml:"user_size"`
	MoviesTTL        time.Duration `toml:"movies_ttl"`
	ContributorsTTL  time.Duration `toml:"contributors_ttl"`
	ContributorsSize int           `toml:"contributors_size"`
}

// Load reads, substitutes, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and applies
// defaults. Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "./data"
	}
	if c.Store.Database == "" {
		c.Store.Database = "./data/movieclub.db"
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if c.Slack.Reaction == "" {
		c.Slack.Reaction = "movie_camera"
	}
	if c.Bot.APIURL == "" {
		c.Bot.APIURL = "http://localhost:8000"
	}
	if c.Bot.ProcessedURLs == "" {
		c.Bot.ProcessedURLs = "./data/processed_urls.txt"
	}
	if c.Bot.PageSize == 0 {
		c.Bot.PageSize = 25
	}
	if c.Bot.Workers == 0 {
		c.Bot.Workers = 4
	}
}

// envVarPattern matches ${VAR_NAME} and ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// Unset variables without a default are left unchanged and reported.
// Comment lines are copied as is.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	replace := func(match string) string {
		expr := match[2 : len(match)-1] // Strip ${ and }
		name, def, hasDefault := strings.Cut(expr, ":-")
		if value, ok := os.LookupEnv(name); ok && (value != "" || !hasDefault) {
			return value
		}
		if hasDefault {
			return def
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
		return match // Leave unchanged if not found
	}

	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, replace)
	}
	return strings.Join(lines, ""), missing
}
