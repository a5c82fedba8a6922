package tmdb

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// movieURLPattern matches movie pages with an optional locale segment:
// themoviedb.org/movie/550-fight-club, themoviedb.org/de-DE/movie/550.
var movieURLPattern = regexp.MustCompile(`themoviedb\.org/(?:[a-z]{2}(?:-[A-Za-z]{2})?/)?movie/(\d+)`)

// IsMovieURL reports whether url points at a TMDB movie page.
func IsMovieURL(url string) bool {
	return strings.Contains(url, "themoviedb.org") && movieURLPattern.MatchString(url)
}

// ParseMovieURL extracts the movie ID from a TMDB movie page URL.
func ParseMovieURL(url string) (int64, error) {
	m := movieURLPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}
	return id, nil
}
