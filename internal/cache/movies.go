package cache

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vmunix/movieclub/internal/movie"
)

//go:generate mockgen -source=movies.go -destination=mocks/mock_movies.go -package=mocks

// MovieSource lists the whole catalog.
type MovieSource interface {
	ListAll(ctx context.Context) (map[int64]movie.Movie, error)
}

// MovieList caches the full catalog as a single snapshot.
type MovieList struct {
	src   MovieSource
	group singleflight.Group
	s     settings

	mu        sync.Mutex
	movies    []movie.Movie
	fetchedAt time.Time
	ok        bool
}

// NewMovieList creates a movie list cache with a 2 minute ttl by default.
func NewMovieList(src MovieSource, opts ...Option) *MovieList {
	return &MovieList{src: src, s: newSettings(DefaultMoviesTTL, 1, opts)}
}

// All returns the cached catalog, fetching it when absent or expired.
// Within the ttl every caller gets the same backing slice, so a sort done by
// one caller is visible to the next. Fetch errors are returned and leave the
// cache empty.
func (l *MovieList) All(ctx context.Context) ([]movie.Movie, error) {
	if movies, ok := l.cached(); ok {
		return movies, nil
	}

	ch := l.group.DoChan("all", func() (any, error) {
		start := l.s.now()
		byID, err := l.src.ListAll(context.WithoutCancel(ctx))
		if err != nil {
			l.s.log.Error("movie list fetch failed", "error", err)
			return nil, err
		}

		movies := make([]movie.Movie, 0, len(byID))
		for _, m := range byID {
			movies = append(movies, m)
		}
		slices.SortFunc(movies, func(a, b movie.Movie) int { return cmp.Compare(a.ID, b.ID) })

		l.mu.Lock()
		l.movies, l.fetchedAt, l.ok = movies, l.s.now(), true
		l.mu.Unlock()

		l.s.log.Debug("movie list refreshed", "movies", len(movies),
			"duration_ms", l.s.now().Sub(start).Milliseconds())
		return movies, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]movie.Movie), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *MovieList) cached() ([]movie.Movie, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ok || l.s.now().Sub(l.fetchedAt) >= l.s.ttl {
		return nil, false
	}
	return l.movies, true
}
