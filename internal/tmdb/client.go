package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vmunix/movieclub/internal/movie"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = time.Hour
const defaultLanguage = "en-US"

var (
	// ErrNotFound is returned when a movie doesn't exist in TMDB.
	ErrNotFound = errors.New("movie not found")

	// ErrUnauthorized is returned when TMDB rejects the API key.
	ErrUnauthorized = errors.New("invalid tmdb api key")

	// ErrInvalidURL is returned when a link is not a TMDB movie page.
	ErrInvalidURL = errors.New("not a tmdb movie url")
)

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	cache      *cache
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the detail cache TTL. Zero disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLanguage sets the response language (default en-US).
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "tmdb")
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		language: defaultLanguage,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: newCache(defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMovie fetches movie metadata by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*movie.Movie, error) {
	if m, ok := c.cache.get(tmdbID); ok {
		return m, nil
	}

	var m movie.Movie
	if err := c.get(ctx, fmt.Sprintf("/3/movie/%d", tmdbID), nil, &m); err != nil {
		return nil, err
	}
	if !m.Valid() {
		return nil, fmt.Errorf("decode movie %d: missing id or title", tmdbID)
	}

	c.cache.set(tmdbID, &m)
	return &m, nil
}

// MovieByURL fetches the movie a TMDB movie page URL points at.
func (c *Client) MovieByURL(ctx context.Context, pageURL string) (*movie.Movie, error) {
	id, err := ParseMovieURL(pageURL)
	if err != nil {
		return nil, err
	}
	return c.GetMovie(ctx, id)
}

// Search searches movies by title. Pages start at 1.
func (c *Client) Search(ctx context.Context, query string, page int) (*ResultPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(max(page, 1)))
	params.Set("include_adult", "false")

	var rp ResultPage
	if err := c.get(ctx, "/3/search/movie", params, &rp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return &rp, nil
}

// Popular returns TMDB's current popular movies list.
func (c *Client) Popular(ctx context.Context, page int) (*ResultPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(page, 1)))

	var rp ResultPage
	if err := c.get(ctx, "/3/movie/popular", params, &rp); err != nil {
		return nil, fmt.Errorf("popular: %w", err)
	}
	return &rp, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if c.log != nil {
		c.log.Debug("tmdb request", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
