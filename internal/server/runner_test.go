package server

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/movieclub/internal/config"
)

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunner_StartsAndStops(t *testing.T) {
	var started atomic.Int32
	comp := func(name string) Component {
		return Component{Name: name, Run: func(ctx context.Context) error {
			started.Add(1)
			return blockUntilDone(ctx)
		}}
	}
	runner := NewRunner(nil, comp("a"), comp("b"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	require.Eventually(t, func() bool { return started.Load() == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean shutdown")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}
}

func TestRunner_FailureStopsOthers(t *testing.T) {
	boom := errors.New("boom")
	runner := NewRunner(nil,
		Component{Name: "steady", Run: blockUntilDone},
		Component{Name: "broken", Run: func(context.Context) error { return boom }},
	)

	err := runner.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestRunner_Add(t *testing.T) {
	runner := NewRunner(nil, Component{Name: "bot", Run: blockUntilDone})
	runner.Add(Component{Name: "watcher", Run: blockUntilDone})
	assert.Equal(t, []string{"bot", "watcher"}, runner.Names())
	assert.NotNil(t, runner.logger)
}

func TestHTTPComponent_Shutdown(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	c := HTTPComponent("api", srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("http component did not stop")
	}
}

func TestHTTPComponent_ListenError(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:bad"}
	err := HTTPComponent("api", srv).Run(context.Background())
	assert.Error(t, err)
}

func botConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.TMDB.APIKey = "tmdb-key"
	cfg.Slack.BotToken = "xoxb-test"
	cfg.Slack.AppToken = "xapp-test"
	cfg.Slack.ChannelID = "C1"
	cfg.Bot.ProcessedURLs = filepath.Join(t.TempDir(), "data", "processed_urls.txt")
	return cfg
}

func TestNewBot(t *testing.T) {
	cfg := botConfig(t)

	runner, err := NewBot(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"bot"}, runner.Names())
	assert.DirExists(t, filepath.Dir(cfg.Bot.ProcessedURLs), "processed log directory is created")
}

func TestNewBot_WatchProcessed(t *testing.T) {
	cfg := botConfig(t)
	cfg.Bot.WatchProcessed = true

	runner, err := NewBot(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"bot", "processed-log"}, runner.Names())
}

func TestNewBot_MissingSlackConfig(t *testing.T) {
	cfg := botConfig(t)
	cfg.Slack.ChannelID = ""
	cfg.Slack.AppToken = ""

	_, err := NewBot(cfg, nil)
	require.ErrorIs(t, err, ErrBotConfig)
	assert.Contains(t, err.Error(), "slack.channel_id")
}
