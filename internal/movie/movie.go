// Package movie defines the movie record shared by the store, the metadata
// client and the bot.
package movie

import (
	"fmt"
	"strconv"
	"strings"
)

const imageBaseURL = "https://image.tmdb.org/t/p/"

// Movie is a TMDB movie record as persisted by the store.
type Movie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"` // "1999-10-15"
	PosterPath    string  `json:"poster_path,omitempty"`
	BackdropPath  string  `json:"backdrop_path,omitempty"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Genres        []Genre `json:"genres"`
	Runtime       *int    `json:"runtime,omitempty"` // minutes
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreCount is a genre with the number of movies carrying it.
type GenreCount struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Valid reports whether the record carries the fields every movie needs.
func (m *Movie) Valid() bool {
	return m.ID > 0 && m.Title != ""
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// YearLabel returns the release year as printed in listings, or "N/A".
func (m *Movie) YearLabel() string {
	if len(m.ReleaseDate) < 4 {
		return "N/A"
	}
	return m.ReleaseDate[:4]
}

// RatingLabel returns the vote average as printed in listings ("7.0/10"),
// or "N/A" when the movie has no rating.
func (m *Movie) RatingLabel() string {
	if m.VoteAverage == 0 {
		return "N/A"
	}
	return FormatRating(m.VoteAverage) + "/10"
}

// FormatRating prints a rating with the shortest exact representation,
// keeping at least one decimal place: 7 -> "7.0", 8.45 -> "8.45".
func FormatRating(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// GenreNames returns the genre names in record order.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

// PosterURL returns the full poster image URL.
// Size can be: w92, w154, w185, w342, w500, w780, original
func (m *Movie) PosterURL(size string) string {
	if m.PosterPath == "" {
		return ""
	}
	return imageBaseURL + size + m.PosterPath
}

// BackdropURL returns the full backdrop image URL.
func (m *Movie) BackdropURL(size string) string {
	if m.BackdropPath == "" {
		return ""
	}
	return imageBaseURL + size + m.BackdropPath
}

// TMDBURL returns the movie's page on themoviedb.org.
func (m *Movie) TMDBURL() string {
	return fmt.Sprintf("https://www.themoviedb.org/movie/%d", m.ID)
}

func (m *Movie) String() string {
	return fmt.Sprintf("%s (%s)", m.Title, m.YearLabel())
}
