// Package cache holds the bot's in-memory read caches: Slack display names,
// the full movie list, and per-page contributor names. Nothing here is
// persisted; every entry expires after its ttl and is refetched on demand.
package cache

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultUserTTL          = 24 * time.Hour
	DefaultUserSize         = 1000
	DefaultMoviesTTL        = 2 * time.Minute
	DefaultContributorsTTL  = 5 * time.Minute
	DefaultContributorsSize = 100

	defaultParallelism = 8

	// Slack Tier 4 allows roughly 100 users.info calls per minute.
	defaultUserLookupRate  = rate.Limit(100.0 / 60.0)
	defaultUserLookupBurst = 20
)

type settings struct {
	ttl         time.Duration
	size        int
	parallelism int
	limiter     *rate.Limiter
	log         *slog.Logger
	now         func() time.Time
}

// Option configures a cache.
type Option func(*settings)

// WithTTL sets how long entries stay valid.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSize bounds the number of entries; the least recently used entry is
// evicted first.
func WithSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.size = n
		}
	}
}

// WithParallelism bounds concurrent backend calls during a prefetch.
func WithParallelism(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithRateLimit throttles outbound user lookups. A nil limiter disables
// throttling.
func WithRateLimit(l *rate.Limiter) Option {
	return func(s *settings) {
		s.limiter = l
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *settings) {
		s.log = log.With("component", "cache")
	}
}

// withClock overrides time.Now (tests).
func withClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func newSettings(ttl time.Duration, size int, opts []Option) settings {
	s := settings{
		ttl:         ttl,
		size:        size,
		parallelism: defaultParallelism,
		log:         slog.New(slog.DiscardHandler),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
