// internal/config/write_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "movieclub", "config.toml")
	require.NoError(t, WriteDefault(path, false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[server]")
	assert.Contains(t, string(content), "[cache]")
	assert.Contains(t, string(content), "${TMDB_API_KEY}")
}

// The shipped default must load once its one required variable is set.
func TestWriteDefault_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(path, false))

	t.Setenv("TMDB_API_KEY", "test-tmdb-key")
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("SLACK_APP_TOKEN", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-tmdb-key", cfg.TMDB.APIKey)
	assert.Equal(t, "middle_finger", cfg.Slack.RejectReaction)
	assert.Equal(t, 24*time.Hour, cfg.Cache.UserTTL)
	assert.Equal(t, 2*time.Minute, cfg.Cache.MoviesTTL)
	assert.Equal(t, 100, cfg.Cache.ContributorsSize)
}

func TestWriteDefault_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0644))

	err := WriteDefault(path, false)
	require.ErrorIs(t, err, ErrExists)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(content))

	require.NoError(t, WriteDefault(path, true))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[server]")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestConfig_Write(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 9090
	cfg.Store.Backend = "sqlite"
	cfg.Cache.ContributorsTTL = 90 * time.Second

	path := filepath.Join(t.TempDir(), "out", "config.toml")
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
