// Package dedup makes sure each shared TMDB link is recorded at most once,
// across restarts and across bot processes watching the same channel.
//
// A link is handled once per process via the processed log. Other processes
// signal that they have handled a message by reacting to it, so a process
// that sees the reaction records the link locally without storing it again.
// A second process can still race between the reaction check and its own
// reaction; the store tolerates that because creation is idempotent.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/slack-go/slack"

	"github.com/vmunix/movieclub/internal/movie"
	"github.com/vmunix/movieclub/internal/tmdb"
)

//go:generate mockgen -source=coordinator.go -destination=mocks/mock_coordinator.go -package=mocks

const (
	DefaultReaction       = "movie_camera"
	DefaultRejectReaction = "middle_finger"
)

// Outcome reports what Handle did with a link.
type Outcome int

const (
	// OutcomeIgnored: the link was already in the local log.
	OutcomeIgnored Outcome = iota
	// OutcomeExternallyRecorded: another process had reacted; logged locally only.
	OutcomeExternallyRecorded
	// OutcomeRecorded: fetched, stored, logged and reacted to.
	OutcomeRecorded
	// OutcomeSkipped: no movie id in the link, or TMDB has no such movie.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeExternallyRecorded:
		return "externally_recorded"
	case OutcomeRecorded:
		return "recorded"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Observation is one link seen in a channel message.
type Observation struct {
	Channel   string
	Timestamp string
	URL       string
	UserID    string
}

// Slack is the subset of the Slack API used to read and place reactions.
type Slack interface {
	GetReactionsContext(ctx context.Context, item slack.ItemRef, params slack.GetReactionsParameters) (slack.ReactedItem, error)
	AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error
}

// Metadata fetches movie details.
type Metadata interface {
	GetMovie(ctx context.Context, id int64) (*movie.Movie, error)
}

// MovieStore persists movies and contributors.
type MovieStore interface {
	Create(ctx context.Context, mv *movie.Movie) (*movie.Movie, error)
	AddContributor(ctx context.Context, id int64, userID string) (bool, error)
}

// URLLog is the durable processed-URL set.
type URLLog interface {
	Contains(url string) bool
	Mark(url string) error
}

// Coordinator records TMDB links shared in the channel.
type Coordinator struct {
	slack    Slack
	meta     Metadata
	store    MovieStore
	urls     URLLog
	reaction string
	reject   string
	log      *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithReaction sets the reaction that marks a handled message.
func WithReaction(name string) Option {
	return func(c *Coordinator) {
		if name != "" {
			c.reaction = name
		}
	}
}

// WithRejectReaction sets the reaction placed on non-TMDB links. Empty
// disables rejecting.
func WithRejectReaction(name string) Option {
	return func(c *Coordinator) {
		c.reject = name
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		c.log = log
	}
}

// New creates a Coordinator.
func New(api Slack, meta Metadata, store MovieStore, urls URLLog, opts ...Option) *Coordinator {
	c := &Coordinator{
		slack:    api,
		meta:     meta,
		store:    store,
		urls:     urls,
		reaction: DefaultReaction,
		reject:   DefaultRejectReaction,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "dedup")
	return c
}

// Handle processes one TMDB link. Errors mean the link was not recorded and
// will be retried the next time it is seen.
func (c *Coordinator) Handle(ctx context.Context, obs Observation) (Outcome, error) {
	log := c.log.With("url", obs.URL, "channel", obs.Channel, "ts", obs.Timestamp)

	if c.urls.Contains(obs.URL) {
		return OutcomeIgnored, nil
	}

	reacted, err := c.hasReaction(ctx, obs.Channel, obs.Timestamp, c.reaction)
	if err != nil {
		log.Warn("reaction check failed", "error", err)
	}
	if reacted {
		if err := c.urls.Mark(obs.URL); err != nil {
			return OutcomeExternallyRecorded, fmt.Errorf("mark %s: %w", obs.URL, err)
		}
		log.Info("link already recorded by another process")
		return OutcomeExternallyRecorded, nil
	}

	id, err := tmdb.ParseMovieURL(obs.URL)
	if err != nil {
		log.Info("no movie id in link", "error", err)
		return OutcomeSkipped, nil
	}

	m, err := c.meta.GetMovie(ctx, id)
	if errors.Is(err, tmdb.ErrNotFound) {
		log.Info("movie not found on tmdb", "movie_id", id)
		return OutcomeSkipped, nil
	}
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("fetch movie %d: %w", id, err)
	}

	stored, err := c.store.Create(ctx, m)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("store movie %d: %w", id, err)
	}

	if obs.UserID != "" {
		added, err := c.store.AddContributor(ctx, stored.ID, obs.UserID)
		if err != nil {
			return OutcomeSkipped, fmt.Errorf("add contributor: %w", err)
		}
		if !added {
			log.Debug("contributor already recorded", "user", obs.UserID)
		}
	}

	if err := c.urls.Mark(obs.URL); err != nil {
		return OutcomeSkipped, fmt.Errorf("mark %s: %w", obs.URL, err)
	}

	c.react(ctx, log, obs.Channel, obs.Timestamp, c.reaction)
	log.Info("movie recorded", "movie_id", stored.ID, "title", stored.Title, "user", obs.UserID)
	return OutcomeRecorded, nil
}

// Reject marks a non-TMDB link with the reject reaction unless the message
// already carries it.
func (c *Coordinator) Reject(ctx context.Context, channel, ts string) {
	if c.reject == "" {
		return
	}
	log := c.log.With("channel", channel, "ts", ts)

	reacted, err := c.hasReaction(ctx, channel, ts, c.reject)
	if err != nil {
		log.Warn("reaction check failed", "error", err)
		return
	}
	if !reacted {
		c.react(ctx, log, channel, ts, c.reject)
	}
}

func (c *Coordinator) react(ctx context.Context, log *slog.Logger, channel, ts, name string) {
	err := c.slack.AddReactionContext(ctx, name, slack.NewRefToMessage(channel, ts))
	if err != nil && !isAlreadyReacted(err) {
		log.Warn("add reaction failed", "reaction", name, "error", err)
	}
}

// hasReaction reports whether the message at ts carries the named reaction.
// reactions.get addresses the message itself, so thread replies are
// checked as reliably as top-level messages.
func (c *Coordinator) hasReaction(ctx context.Context, channel, ts, name string) (bool, error) {
	item, err := c.slack.GetReactionsContext(ctx, slack.NewRefToMessage(channel, ts), slack.NewGetReactionsParameters())
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(item.Reactions, func(r slack.ItemReaction) bool { return r.Name == name }), nil
}

func isAlreadyReacted(err error) bool {
	return strings.Contains(err.Error(), "already_reacted")
}
