// Package storeclient is the HTTP client for the movie store service.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/movieclub/internal/movie"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the store has no such movie.
	ErrNotFound = errors.New("movie not found")

	// ErrBadRequest is returned when the store rejects a request.
	ErrBadRequest = errors.New("bad request")
)

// Status is the store's health summary.
type Status struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Movies  int    `json:"movies"`
}

// Client wraps HTTP calls to the movie store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "storeclient")
	}
}

// New creates a store client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAll returns every stored movie keyed by id.
func (c *Client) ListAll(ctx context.Context) (map[int64]movie.Movie, error) {
	var out map[int64]movie.Movie
	if err := c.do(ctx, http.MethodGet, "/api/movies", nil, &out); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	if out == nil {
		out = map[int64]movie.Movie{}
	}
	return out, nil
}

// Get returns a single movie or ErrNotFound.
func (c *Client) Get(ctx context.Context, id int64) (*movie.Movie, error) {
	var m movie.Movie
	if err := c.do(ctx, http.MethodGet, "/api/movies/"+strconv.FormatInt(id, 10), nil, &m); err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return &m, nil
}

// Random returns a random movie or ErrNotFound when the store is empty.
func (c *Client) Random(ctx context.Context) (*movie.Movie, error) {
	var m movie.Movie
	if err := c.do(ctx, http.MethodGet, "/api/random", nil, &m); err != nil {
		return nil, fmt.Errorf("random movie: %w", err)
	}
	return &m, nil
}

// Genres returns genre counts, most common first.
func (c *Client) Genres(ctx context.Context) ([]movie.GenreCount, error) {
	var out []movie.GenreCount
	if err := c.do(ctx, http.MethodGet, "/api/genres", nil, &out); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return out, nil
}

// ByGenre returns the movies tagged with a genre.
func (c *Client) ByGenre(ctx context.Context, genreID int) ([]movie.Movie, error) {
	var out []movie.Movie
	if err := c.do(ctx, http.MethodGet, "/api/movies/genre/"+strconv.Itoa(genreID), nil, &out); err != nil {
		return nil, fmt.Errorf("movies by genre %d: %w", genreID, err)
	}
	return out, nil
}

// Contributors returns the user ids that shared a movie.
func (c *Client) Contributors(ctx context.Context, id int64) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/api/movies/"+strconv.FormatInt(id, 10)+"/users", nil, &out); err != nil {
		return nil, fmt.Errorf("contributors for %d: %w", id, err)
	}
	return out, nil
}

// AddContributor records userID against the movie. It reports false without
// an error when the store already had the user.
func (c *Client) AddContributor(ctx context.Context, id int64, userID string) (bool, error) {
	path := "/api/movies/" + strconv.FormatInt(id, 10) + "/users?user_id=" + url.QueryEscape(userID)
	err := c.do(ctx, http.MethodPost, path, nil, nil)
	if errors.Is(err, ErrBadRequest) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("add contributor %s to %d: %w", userID, id, err)
	}
	return true, nil
}

// Create stores a movie. An already stored movie is returned unchanged.
func (c *Client) Create(ctx context.Context, m *movie.Movie) (*movie.Movie, error) {
	var out movie.Movie
	if err := c.do(ctx, http.MethodPost, "/api/movies", m, &out); err != nil {
		return nil, fmt.Errorf("create movie %d: %w", m.ID, err)
	}
	return &out, nil
}

// Status returns the store's health summary.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var s Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &s); err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	return &s, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("store request", "method", method, "path", path, "status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s", ErrBadRequest, strings.TrimSpace(string(respBody)))
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
