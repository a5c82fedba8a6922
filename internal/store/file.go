package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/vmunix/movieclub/internal/movie"
)

const (
	contributorsFile = "movie_users.json"
	popularFile      = "popular_movies.json"
)

// FileStore keeps one pretty-printed JSON file per movie in a directory,
// plus a single movie_users.json mapping movie ids to contributor ids.
type FileStore struct {
	dir string
	log *slog.Logger

	mu sync.RWMutex
}

// NewFileStore opens (creating if needed) a file store rooted at dir.
func NewFileStore(dir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &FileStore{dir: dir, log: log.With("component", "filestore")}, nil
}

func (s *FileStore) moviePath(id int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(id, 10)+".json")
}

// List reads every movie file. Malformed files are logged and skipped.
func (s *FileStore) List(ctx context.Context) ([]movie.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(ctx)
}

func (s *FileStore) list(ctx context.Context) ([]movie.Movie, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	movies := make([]movie.Movie, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == contributorsFile || name == popularFile {
			continue
		}
		m, err := readMovie(filepath.Join(s.dir, name))
		if err != nil {
			s.log.Warn("skipping movie file", "file", name, "error", err)
			continue
		}
		movies = append(movies, *m)
	}
	sortByID(movies)
	return movies, nil
}

func readMovie(path string) (*movie.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m movie.Movie
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if !m.Valid() {
		return nil, ErrInvalid
	}
	return &m, nil
}

// Get reads a single movie file.
func (s *FileStore) Get(_ context.Context, id int64) (*movie.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := readMovie(s.moviePath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return m, nil
}

// Add writes a new movie file or returns the existing one untouched.
func (s *FileStore) Add(_ context.Context, m *movie.Movie) (*movie.Movie, bool, error) {
	if m == nil || !m.Valid() {
		return nil, false, ErrInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.moviePath(m.ID)
	if existing, err := readMovie(path); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("replacing unreadable movie file", "movie_id", m.ID, "error", err)
	}

	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return nil, false, fmt.Errorf("encode movie %d: %w", m.ID, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return nil, false, fmt.Errorf("write movie %d: %w", m.ID, err)
	}
	s.log.Info("movie added", "movie_id", m.ID, "title", m.Title)
	return m, true, nil
}

// Random picks a movie uniformly.
func (s *FileStore) Random(ctx context.Context) (*movie.Movie, error) {
	movies, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, ErrNotFound
	}
	m := movies[rand.IntN(len(movies))]
	return &m, nil
}

// Genres aggregates genres across all movie files.
func (s *FileStore) Genres(ctx context.Context) ([]movie.GenreCount, error) {
	movies, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return countGenres(movies), nil
}

// ByGenre filters movie files by genre id.
func (s *FileStore) ByGenre(ctx context.Context, genreID int) ([]movie.Movie, error) {
	movies, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := slices.DeleteFunc(movies, func(m movie.Movie) bool { return !hasGenre(m, genreID) })
	return out, nil
}

// Count returns the number of readable movie files.
func (s *FileStore) Count(ctx context.Context) (int, error) {
	movies, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(movies), nil
}

// Contributors reads the contributor map entry for a movie.
func (s *FileStore) Contributors(_ context.Context, id int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := s.readContributors()
	if err != nil {
		return nil, err
	}
	out := users[strconv.FormatInt(id, 10)]
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// AddContributor appends userID to the movie's contributor list.
func (s *FileStore) AddContributor(_ context.Context, id int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readContributors()
	if err != nil {
		return err
	}
	key := strconv.FormatInt(id, 10)
	if slices.Contains(users[key], userID) {
		return ErrExists
	}
	users[key] = append(users[key], userID)

	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("encode contributors: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, contributorsFile), data); err != nil {
		return fmt.Errorf("write contributors: %w", err)
	}
	return nil
}

// readContributors loads movie_users.json. A missing file is an empty map;
// a corrupt one is logged and treated as empty.
func (s *FileStore) readContributors() (map[string][]string, error) {
	users := make(map[string][]string)
	data, err := os.ReadFile(filepath.Join(s.dir, contributorsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return users, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read contributors: %w", err)
	}
	if err := json.Unmarshal(data, &users); err != nil {
		s.log.Warn("contributor file unreadable", "error", err)
		return make(map[string][]string), nil
	}
	return users, nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }

// writeFileAtomic writes via a temp file and rename so readers never see a
// partial movie file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Store = (*FileStore)(nil)
