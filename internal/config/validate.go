// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validBackends = map[string]bool{
	"file": true, "sqlite": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if !validBackends[c.Store.Backend] {
		errs = append(errs, fmt.Sprintf("store.backend: must be one of file, sqlite; got %q", c.Store.Backend))
	}

	if c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb.api_key: required")
	}
	if c.TMDB.BaseURL != "" && !isHTTPURL(c.TMDB.BaseURL) {
		errs = append(errs, fmt.Sprintf("tmdb.base_url: not an http(s) URL: %q", c.TMDB.BaseURL))
	}

	// Slack tokens are only needed by the bot, but if one is set both must be.
	if (c.Slack.BotToken == "") != (c.Slack.AppToken == "") {
		errs = append(errs, "slack: bot_token and app_token must be set together")
	}
	if c.Slack.BotToken != "" && !strings.HasPrefix(c.Slack.BotToken, "xoxb-") {
		errs = append(errs, "slack.bot_token: must start with xoxb-")
	}
	if c.Slack.AppToken != "" && !strings.HasPrefix(c.Slack.AppToken, "xapp-") {
		errs = append(errs, "slack.app_token: must start with xapp-")
	}

	if c.Bot.APIURL != "" && !isHTTPURL(c.Bot.APIURL) {
		errs = append(errs, fmt.Sprintf("bot.api_url: not an http(s) URL: %q", c.Bot.APIURL))
	}
	if c.Bot.PageSize < 0 {
		errs = append(errs, fmt.Sprintf("bot.page_size: must be positive, got %d", c.Bot.PageSize))
	}
	if c.Bot.Workers < 0 {
		errs = append(errs, fmt.Sprintf("bot.workers: must be positive, got %d", c.Bot.Workers))
	}

	if c.Cache.UserTTL < 0 || c.Cache.MoviesTTL < 0 || c.Cache.ContributorsTTL < 0 {
		errs = append(errs, "cache: ttl values must not be negative")
	}
	if c.Cache.UserSize < 0 || c.Cache.ContributorsSize < 0 {
		errs = append(errs, "cache: size values must not be negative")
	}

	return errs
}

// ValidateBot checks the settings the Slack bot needs on top of Validate.
func (c *Config) ValidateBot() []string {
	errs := c.Validate()
	if c.Slack.BotToken == "" {
		errs = append(errs, "slack.bot_token: required")
	}
	if c.Slack.AppToken == "" {
		errs = append(errs, "slack.app_token: required")
	}
	if c.Slack.ChannelID == "" {
		errs = append(errs, "slack.channel_id: required")
	}
	return errs
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
