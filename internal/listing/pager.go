// Package listing renders the movie catalog one page at a time.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/vmunix/movieclub/internal/movie"
)

//go:generate mockgen -source=pager.go -destination=mocks/mock_pager.go -package=mocks

// DefaultPageSize is the number of movies per page.
const DefaultPageSize = 25

// EmptyMessage is the only line rendered for an empty catalog.
const EmptyMessage = "No movies found in the database."

// MovieLister returns the (cached) full catalog.
type MovieLister interface {
	All(ctx context.Context) ([]movie.Movie, error)
}

// ContributorLookup returns contributor display names for a batch.
type ContributorLookup interface {
	Get(ctx context.Context, movies []movie.Movie) map[int64][]string
}

// RenderedPage is one rendered page of the catalog.
type RenderedPage struct {
	Lines      []string
	Header     string // "*Page p/t (Showing movies s-e of N)*"
	Page       int
	TotalPages int
	Total      int
	HasPrev    bool
	HasNext    bool
	Empty      bool
	Start, End int // 1-based, inclusive
}

// Pager renders pages from the movie list cache, prefetching contributors
// for the visible page only.
type Pager struct {
	movies       MovieLister
	contributors ContributorLookup
	log          *slog.Logger
}

// NewPager creates a pager. log may be nil.
func NewPager(movies MovieLister, contributors ContributorLookup, log *slog.Logger) *Pager {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Pager{movies: movies, contributors: contributors, log: log.With("component", "pager")}
}

// RenderPage renders page (1-based, clamped into range) with pageSize movies
// per page, sorted by title.
func (p *Pager) RenderPage(ctx context.Context, page, pageSize int) (RenderedPage, error) {
	start := time.Now()
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	all, err := p.movies.All(ctx)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("load movies: %w", err)
	}
	if len(all) == 0 {
		return RenderedPage{Lines: []string{EmptyMessage}, Empty: true}, nil
	}

	// The cached slice is shared between handlers; sort a copy.
	sorted := slices.Clone(all)
	slices.SortStableFunc(sorted, func(a, b movie.Movie) int { return strings.Compare(a.Title, b.Title) })

	total := len(sorted)
	totalPages := (total + pageSize - 1) / pageSize
	page = min(max(page, 1), totalPages)

	lo := (page - 1) * pageSize
	hi := min(lo+pageSize, total)
	visible := sorted[lo:hi]

	added := p.contributors.Get(ctx, visible)

	lines := make([]string, len(visible))
	for i := range visible {
		lines[i] = FormatLine(lo+i+1, &visible[i], added[visible[i].ID])
	}

	rp := RenderedPage{
		Lines:      lines,
		Header:     fmt.Sprintf("*Page %d/%d (Showing movies %d-%d of %d)*", page, totalPages, lo+1, hi, total),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		Start:      lo + 1,
		End:        hi,
	}
	p.log.Debug("page rendered", "page", page, "total_pages", totalPages,
		"duration_ms", time.Since(start).Milliseconds())
	return rp, nil
}

// FormatLine renders "{n}. {title} ({year}) - {rating}" with an optional
// " - Added by: a, b" suffix.
func FormatLine(n int, m *movie.Movie, addedBy []string) string {
	line := fmt.Sprintf("%d. %s (%s) - %s", n, m.Title, m.YearLabel(), m.RatingLabel())
	if len(addedBy) > 0 {
		line += " - Added by: " + strings.Join(addedBy, ", ")
	}
	return line
}

// Text joins the header and lines the way they are shown in Slack.
func (rp RenderedPage) Text() string {
	if rp.Empty {
		return EmptyMessage
	}
	return rp.Header + "\n\n" + strings.Join(rp.Lines, "\n")
}
