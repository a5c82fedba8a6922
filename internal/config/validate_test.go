// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := Default()
	cfg.TMDB.APIKey = "key"
	return cfg
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidate_MinimalValid(t *testing.T) {
	assert.Empty(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "server.port"},
		{"invalid log level", func(c *Config) { c.Server.LogLevel = "verbose" }, "server.log_level"},
		{"invalid backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"missing tmdb key", func(c *Config) { c.TMDB.APIKey = "" }, "tmdb.api_key"},
		{"bad tmdb url", func(c *Config) { c.TMDB.BaseURL = "ftp://example.com" }, "tmdb.base_url"},
		{"bad api url", func(c *Config) { c.Bot.APIURL = "localhost:8000" }, "bot.api_url"},
		{"one token only", func(c *Config) { c.Slack.BotToken = "xoxb-1" }, "must be set together"},
		{"bot token prefix", func(c *Config) { c.Slack.BotToken, c.Slack.AppToken = "xapp-1", "xapp-2" }, "slack.bot_token"},
		{"app token prefix", func(c *Config) { c.Slack.BotToken, c.Slack.AppToken = "xoxb-1", "xoxb-2" }, "slack.app_token"},
		{"negative page size", func(c *Config) { c.Bot.PageSize = -1 }, "bot.page_size"},
		{"negative workers", func(c *Config) { c.Bot.Workers = -2 }, "bot.workers"},
		{"negative ttl", func(c *Config) { c.Cache.MoviesTTL = -1 }, "cache: ttl"},
		{"negative size", func(c *Config) { c.Cache.UserSize = -1 }, "cache: size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			errs := cfg.Validate()
			assert.True(t, containsError(errs, tt.want), "expected %q in %v", tt.want, errs)
		})
	}
}

func TestValidateBot(t *testing.T) {
	cfg := validConfig()
	errs := cfg.ValidateBot()
	assert.True(t, containsError(errs, "slack.bot_token: required"))
	assert.True(t, containsError(errs, "slack.app_token: required"))
	assert.True(t, containsError(errs, "slack.channel_id: required"))

	cfg.Slack = SlackConfig{BotToken: "xoxb-1", AppToken: "xapp-1", ChannelID: "C1"}
	assert.Empty(t, cfg.ValidateBot())
}
