// Package store persists movie records and the users who contributed them.
package store

import (
	"cmp"
	"context"
	"slices"

	"github.com/vmunix/movieclub/internal/movie"
)

// Store is the movie catalog backing the HTTP API.
type Store interface {
	// List returns every stored movie in no particular order.
	List(ctx context.Context) ([]movie.Movie, error)

	// Get returns one movie or ErrNotFound.
	Get(ctx context.Context, id int64) (*movie.Movie, error)

	// Add stores m unless a movie with the same id already exists, in which
	// case the stored record is returned unchanged and created is false.
	Add(ctx context.Context, m *movie.Movie) (stored *movie.Movie, created bool, err error)

	// Random returns a uniformly chosen movie or ErrNotFound when empty.
	Random(ctx context.Context) (*movie.Movie, error)

	// Genres returns every genre with its movie count, most common first.
	Genres(ctx context.Context) ([]movie.GenreCount, error)

	// ByGenre returns the movies tagged with the genre id.
	ByGenre(ctx context.Context, genreID int) ([]movie.Movie, error)

	// Contributors returns the user ids that shared a movie, in the order
	// they were recorded. Unknown movies have no contributors.
	Contributors(ctx context.Context, id int64) ([]string, error)

	// AddContributor records userID for the movie. Returns ErrExists when
	// the user is already present.
	AddContributor(ctx context.Context, id int64, userID string) error

	// Count returns the number of stored movies.
	Count(ctx context.Context) (int, error)

	Close() error
}

// countGenres aggregates genre counts across movies, most common first with
// ties broken by name.
func countGenres(movies []movie.Movie) []movie.GenreCount {
	byID := make(map[int]*movie.GenreCount)
	for _, m := range movies {
		for _, g := range m.Genres {
			gc, ok := byID[g.ID]
			if !ok {
				gc = &movie.GenreCount{ID: g.ID, Name: g.Name}
				byID[g.ID] = gc
			}
			gc.Count++
		}
	}

	out := make([]movie.GenreCount, 0, len(byID))
	for _, gc := range byID {
		out = append(out, *gc)
	}
	slices.SortFunc(out, func(a, b movie.GenreCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

func hasGenre(m movie.Movie, genreID int) bool {
	return slices.ContainsFunc(m.Genres, func(g movie.Genre) bool { return g.ID == genreID })
}

func sortByID(movies []movie.Movie) {
	slices.SortFunc(movies, func(a, b movie.Movie) int { return cmp.Compare(a.ID, b.ID) })
}
