// Package server runs the long-lived movieclub components and wires them
// from configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long an HTTP component waits for in-flight
// requests after cancellation.
const ShutdownTimeout = 10 * time.Second

// Component is one long-lived task. Run blocks until ctx is cancelled or
// the component fails.
type Component struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner manages a set of components.
type Runner struct {
	components []Component
	logger     *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(logger *slog.Logger, components ...Component) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		components: components,
		logger:     logger,
	}
}

// Add registers another component. It must be called before Run.
func (r *Runner) Add(c Component) {
	r.components = append(r.components, c)
}

// Names lists the registered components in order.
func (r *Runner) Names() []string {
	names := make([]string, len(r.components))
	for i, c := range r.components {
		names[i] = c.Name
	}
	return names
}

// Run starts all components and blocks until the context is cancelled or
// one of them fails; a failure cancels the rest. Cancellation is a clean
// shutdown and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, c := range r.components {
		log := r.logger.With("component", c.Name)
		g.Go(func() error {
			log.Info("component started")
			err := c.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("component failed", "error", err)
				return fmt.Errorf("%s: %w", c.Name, err)
			}
			log.Info("component stopped")
			return nil
		})
	}

	return g.Wait()
}

// HTTPComponent serves srv until ctx is cancelled, then shuts it down
// gracefully.
func HTTPComponent(name string, srv *http.Server) Component {
	return Component{
		Name: name,
		Run: func(ctx context.Context) error {
			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-errCh
		},
	}
}
