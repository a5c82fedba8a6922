package tmdb

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vmunix/movieclub/internal/movie"
)

// detailCacheSize bounds the number of memoized movie details.
const detailCacheSize = 500

// cache memoizes detail lookups so a link posted twice, or a URL looked up
// from the CLI and then added, is fetched once. A nil cache is disabled.
type cache struct {
	lru *expirable.LRU[int64, *movie.Movie]
}

func newCache(ttl time.Duration) *cache {
	if ttl <= 0 {
		return &cache{}
	}
	return &cache{lru: expirable.NewLRU[int64, *movie.Movie](detailCacheSize, nil, ttl)}
}

func (c *cache) get(tmdbID int64) (*movie.Movie, bool) {
	if c.lru == nil {
		return nil, false
	}
	return c.lru.Get(tmdbID)
}

func (c *cache) set(tmdbID int64, m *movie.Movie) {
	if c.lru == nil {
		return
	}
	c.lru.Add(tmdbID, m)
}

func (c *cache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
