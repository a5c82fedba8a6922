package tmdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMovieURL(t *testing.T) {
	tests := []struct {
		url  string
		want int64
	}{
		{"https://www.themoviedb.org/movie/550-fight-club", 550},
		{"https://www.themoviedb.org/movie/550", 550},
		{"http://themoviedb.org/movie/603-the-matrix?language=en-US", 603},
		{"https://www.themoviedb.org/de-DE/movie/27205-inception", 27205},
		{"https://www.themoviedb.org/movie/238/cast", 238},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ParseMovieURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsMovieURL(tt.url))
		})
	}
}

func TestParseMovieURL_Invalid(t *testing.T) {
	for _, u := range []string{
		"https://www.themoviedb.org/tv/1396-breaking-bad",
		"https://www.themoviedb.org/movie/",
		"https://www.imdb.com/title/tt0137523/",
		"https://example.com/themoviedb/movie/550",
	} {
		t.Run(u, func(t *testing.T) {
			_, err := ParseMovieURL(u)
			assert.ErrorIs(t, err, ErrInvalidURL)
			assert.False(t, IsMovieURL(u))
		})
	}
}
