package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vmunix/movieclub/internal/config"
	"github.com/vmunix/movieclub/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer(configPath string) error {
	if configPath == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		configPath = found
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	st, err := server.OpenStore(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	api, err := server.NewStoreAPI(cfg.Server, st, version, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting movieclubd",
		"version", version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"backend", cfg.Store.Backend,
	)

	if err := server.NewRunner(logger, api).Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
