package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	v1 "github.com/vmunix/movieclub/internal/api/v1"
	"github.com/vmunix/movieclub/internal/config"
	"github.com/vmunix/movieclub/internal/store"
)

// OpenStore opens the backend named by cfg.Backend.
func OpenStore(cfg config.StoreConfig, logger *slog.Logger) (store.Store, error) {
	switch cfg.Backend {
	case "", "file":
		st, err := store.NewFileStore(cfg.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return st, nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		st, err := store.OpenSQLite(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// NewStoreAPI returns the HTTP component serving the store API on the
// configured address.
func NewStoreAPI(cfg config.ServerConfig, st store.Store, version string, logger *slog.Logger) (Component, error) {
	api, err := v1.NewWithDeps(v1.ServerDeps{Store: st, Logger: logger, Version: version})
	if err != nil {
		return Component{}, err
	}
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return HTTPComponent("http", srv), nil
}
