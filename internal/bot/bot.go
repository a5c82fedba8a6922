// Package bot is the movie club Slack bot: slash commands, interactive
// buttons and the channel link watcher, served over Socket Mode.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/movieclub/internal/dedup"
	"github.com/vmunix/movieclub/internal/listing"
	"github.com/vmunix/movieclub/internal/movie"
)

//go:generate mockgen -source=bot.go -destination=mocks/mock_bot.go -package=mocks

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// MovieStore is the part of the store the commands read directly.
type MovieStore interface {
	Random(ctx context.Context) (*movie.Movie, error)
	Genres(ctx context.Context) ([]movie.GenreCount, error)
}

// PageRenderer renders catalog pages.
type PageRenderer interface {
	RenderPage(ctx context.Context, page, pageSize int) (listing.RenderedPage, error)
}

// NameResolver maps user ids to display names, one per id.
type NameResolver interface {
	Resolve(ctx context.Context, ids []string) []string
}

// LinkHandler records TMDB links and rejects other links.
type LinkHandler interface {
	Handle(ctx context.Context, obs dedup.Observation) (dedup.Outcome, error)
	Reject(ctx context.Context, channel, ts string)
}

// Deps holds the bot's collaborators.
type Deps struct {
	Messenger    Messenger
	Store        MovieStore
	Movies       listing.MovieLister       // cached catalog
	Pager        PageRenderer              // pages over Movies
	Contributors listing.ContributorLookup // cached "added by" names
	Names        NameResolver
	Links        LinkHandler
	Logger       *slog.Logger // optional
}

// Validate checks that all required dependencies are set.
func (d *Deps) Validate() error {
	var missing []string
	if d.Messenger == nil {
		missing = append(missing, "Messenger")
	}
	if d.Store == nil {
		missing = append(missing, "Store")
	}
	if d.Movies == nil {
		missing = append(missing, "Movies")
	}
	if d.Pager == nil {
		missing = append(missing, "Pager")
	}
	if d.Contributors == nil {
		missing = append(missing, "Contributors")
	}
	if d.Names == nil {
		missing = append(missing, "Names")
	}
	if d.Links == nil {
		missing = append(missing, "Links")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingDependency, missing)
	}
	return nil
}

// Config holds the bot's settings.
type Config struct {
	ChannelID string // the only channel commands, actions and links are honored in
	PageSize  int
	Workers   int
	QueueSize int
}

// Bot dispatches Slack requests to commands and handlers.
type Bot struct {
	deps     Deps
	cfg      Config
	commands map[string]Command
	polls    *PollTracker
	log      *slog.Logger
}

// New creates a bot. The command table is fixed here.
func New(deps Deps, cfg Config) (*Bot, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if cfg.ChannelID == "" {
		return nil, errors.New("channel id is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = listing.DefaultPageSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 16
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	b := &Bot{
		deps:  deps,
		cfg:   cfg,
		polls: NewPollTracker(),
		log:   log.With("component", "bot"),
	}
	b.commands = b.commandTable()
	return b, nil
}

// Commands returns the registered commands sorted by name.
func (b *Bot) Commands() []Command {
	return sortedCommands(b.commands)
}
