// internal/config/error_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_Empty(t *testing.T) {
	e := &ConfigError{Path: "/etc/movieclub/config.toml"}
	assert.False(t, e.HasErrors())
	assert.Empty(t, e.Error())
}

func TestConfigError_Missing(t *testing.T) {
	e := &ConfigError{Path: "config.toml", Missing: []string{"TMDB_API_KEY", "SLACK_BOT_TOKEN"}}
	assert.True(t, e.HasErrors())
	assert.Contains(t, e.Error(), "missing environment variables: TMDB_API_KEY, SLACK_BOT_TOKEN")
}

func TestConfigError_Validation(t *testing.T) {
	e := &ConfigError{Path: "config.toml", Errors: []string{"server.port: bad", "tmdb.api_key: required"}}
	got := e.Error()
	assert.Contains(t, got, "config config.toml:")
	assert.Contains(t, got, "validation failed:")
	assert.Contains(t, got, "  - server.port: bad")
	assert.Contains(t, got, "  - tmdb.api_key: required")
}
