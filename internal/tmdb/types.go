// Package tmdb provides a client for The Movie Database API.
package tmdb

import "github.com/vmunix/movieclub/internal/movie"

// ResultPage is one page of a TMDB list endpoint (search, popular).
type ResultPage struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Result is a list entry. List endpoints return genre ids rather than the
// id+name pairs of the detail endpoint.
type Result struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	GenreIDs      []int   `json:"genre_ids"`
}

// Movie converts the list entry to a movie record without genres or runtime.
func (r Result) Movie() movie.Movie {
	return movie.Movie{
		ID:            r.ID,
		Title:         r.Title,
		OriginalTitle: r.OriginalTitle,
		Overview:      r.Overview,
		ReleaseDate:   r.ReleaseDate,
		PosterPath:    r.PosterPath,
		BackdropPath:  r.BackdropPath,
		Popularity:    r.Popularity,
		VoteAverage:   r.VoteAverage,
		VoteCount:     r.VoteCount,
	}
}

// YearLabel returns the release year or "N/A".
func (r Result) YearLabel() string {
	if len(r.ReleaseDate) < 4 {
		return "N/A"
	}
	return r.ReleaseDate[:4]
}
