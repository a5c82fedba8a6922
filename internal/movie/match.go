package movie

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Confidence is how closely a query matched a catalog title.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // Score < 0.75
	ConfidenceLow                      // Score >= 0.75
	ConfidenceMedium                   // Score >= 0.88
	ConfidenceHigh                     // Score >= 0.97
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Match is the best catalog movie for a title query.
type Match struct {
	Movie      *Movie
	Score      float64 // Jaro-Winkler similarity, 0.0-1.0
	Confidence Confidence
}

// NormalizeTitle lowercases a title and strips accents, punctuation and a
// leading article so "The Matrix" and "matrix" compare equal.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	for _, art := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// MatchTitle finds the catalog movie whose title or original title is most
// similar to query. An exact normalized match always wins. Returns a Match
// with a nil Movie when nothing reaches ConfidenceLow.
func MatchTitle(query string, movies []Movie) Match {
	q := NormalizeTitle(query)
	if q == "" || len(movies) == 0 {
		return Match{}
	}

	var best Match
	for i := range movies {
		m := &movies[i]
		for _, candidate := range []string{m.Title, m.OriginalTitle} {
			if candidate == "" {
				continue
			}
			c := NormalizeTitle(candidate)
			var score float64
			if c == q {
				score = 1
			} else {
				score = float64(edlib.JaroWinklerSimilarity(q, c))
				// A query that is a whole-word prefix of the title ("godfather"
				// for "godfather part ii") is a strong hint.
				if strings.HasPrefix(c, q+" ") {
					score = min(score*1.05, 0.99)
				}
			}
			if score > best.Score {
				best = Match{Movie: m, Score: score}
			}
		}
	}

	switch {
	case best.Score >= 0.97:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.88:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.75:
		best.Confidence = ConfidenceLow
	default:
		return Match{Score: best.Score}
	}
	return best
}
