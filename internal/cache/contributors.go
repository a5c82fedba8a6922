package cache

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/movieclub/internal/movie"
)

//go:generate mockgen -source=contributors.go -destination=mocks/mock_contributors.go -package=mocks

// ContributorSource returns the user ids recorded against a movie.
type ContributorSource interface {
	Contributors(ctx context.Context, id int64) ([]string, error)
}

// Resolver turns user ids into display names.
type Resolver interface {
	Resolve(ctx context.Context, ids []string) []string
}

// Contributors caches movie -> contributor display names per batch of
// movies, typically one rendered page.
type Contributors struct {
	src     ContributorSource
	names   Resolver
	batches *expirable.LRU[string, map[int64][]string]
	s       settings
}

// NewContributors creates a contributor cache holding 100 batches for 5
// minutes by default.
func NewContributors(src ContributorSource, names Resolver, opts ...Option) *Contributors {
	s := newSettings(DefaultContributorsTTL, DefaultContributorsSize, opts)
	return &Contributors{
		src:     src,
		names:   names,
		batches: expirable.NewLRU[string, map[int64][]string](s.size, nil, s.ttl),
		s:       s,
	}
}

// BatchKey identifies a batch by its full sorted id set, so two batches
// share an entry only when they contain exactly the same movies.
func BatchKey(movies []movie.Movie) string {
	ids := make([]int64, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

// Get returns display names per movie id for the batch. Movies without
// contributors are absent from the result. A movie whose lookup fails is
// logged and treated as having none. The returned map is shared with the
// cache and must not be modified.
func (c *Contributors) Get(ctx context.Context, movies []movie.Movie) map[int64][]string {
	if len(movies) == 0 {
		return map[int64][]string{}
	}
	key := BatchKey(movies)
	if names, ok := c.batches.Get(key); ok {
		return names
	}

	start := time.Now()
	ids := make([]int64, 0, len(movies))
	for _, m := range movies {
		if !slices.Contains(ids, m.ID) {
			ids = append(ids, m.ID)
		}
	}

	perMovie := make([][]string, len(ids))
	failed := make([]bool, len(ids))
	var g errgroup.Group
	g.SetLimit(c.s.parallelism)
	for i, id := range ids {
		g.Go(func() error {
			users, err := c.src.Contributors(ctx, id)
			if err != nil {
				c.s.log.Warn("contributor lookup failed", "movie_id", id, "error", err)
				failed[i] = true
				return nil
			}
			perMovie[i] = users
			return nil
		})
	}
	_ = g.Wait()

	// One name lookup for the union, in first-seen order.
	var union []string
	seen := make(map[string]bool)
	for _, users := range perMovie {
		for _, u := range users {
			if !seen[u] {
				seen[u] = true
				union = append(union, u)
			}
		}
	}
	nameOf := make(map[string]string, len(union))
	partial := slices.Contains(failed, true)
	if len(union) > 0 {
		for i, name := range c.names.Resolve(ctx, union) {
			nameOf[union[i]] = name
			if name == UnknownUser {
				partial = true
			}
		}
	}

	result := make(map[int64][]string, len(ids))
	for i, id := range ids {
		if len(perMovie[i]) == 0 {
			continue
		}
		names := make([]string, len(perMovie[i]))
		for j, u := range perMovie[i] {
			names[j] = nameOf[u]
		}
		result[id] = names
	}

	// Failed or cancelled lookups are retried on the next call.
	if !partial && ctx.Err() == nil {
		c.batches.Add(key, result)
	}
	c.s.log.Debug("contributors prefetched", "movies", len(ids), "users", len(union),
		"duration_ms", time.Since(start).Milliseconds())
	return result
}
