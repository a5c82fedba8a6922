package v1

import (
	"errors"
	"log/slog"

	"github.com/vmunix/movieclub/internal/store"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// ServerDeps contains all dependencies for the API server.
type ServerDeps struct {
	// Required
	Store store.Store

	// Optional
	Logger  *slog.Logger
	Version string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Store == nil {
		return errors.New("movie store is required")
	}
	return nil
}
