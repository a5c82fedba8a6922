package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vmunix/movieclub/internal/migrations"
	"github.com/vmunix/movieclub/internal/movie"
)

// SQLiteStore keeps movies in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	s, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an open database and applies the schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(migrations.Schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// mapSQLiteError converts SQLite errors to store errors.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite only exposes constraint failures through the message.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed") {
		return ErrExists
	}
	return err
}

const movieColumns = `id, title, original_title, overview, release_date, poster_path, backdrop_path,
	popularity, vote_average, vote_count, runtime`

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(row scanner) (*movie.Movie, error) {
	var m movie.Movie
	var runtime sql.NullInt64
	if err := row.Scan(&m.ID, &m.Title, &m.OriginalTitle, &m.Overview, &m.ReleaseDate,
		&m.PosterPath, &m.BackdropPath, &m.Popularity, &m.VoteAverage, &m.VoteCount, &runtime); err != nil {
		return nil, err
	}
	if runtime.Valid {
		v := int(runtime.Int64)
		m.Runtime = &v
	}
	return &m, nil
}

func (s *SQLiteStore) queryMovies(ctx context.Context, query string, args ...any) ([]movie.Movie, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []movie.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	// Release the connection before the genre query.
	_ = rows.Close()

	if err := s.attachGenres(ctx, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// attachGenres loads genres for the given movies in one query.
func (s *SQLiteStore) attachGenres(ctx context.Context, movies []movie.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	index := make(map[int64]int, len(movies))
	for i := range movies {
		index[movies[i].ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT mg.movie_id, g.id, g.name
		FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id
		ORDER BY mg.movie_id, mg.position`)
	if err != nil {
		return fmt.Errorf("query genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var movieID int64
		var g movie.Genre
		if err := rows.Scan(&movieID, &g.ID, &g.Name); err != nil {
			return fmt.Errorf("scan genre: %w", err)
		}
		if i, ok := index[movieID]; ok {
			movies[i].Genres = append(movies[i].Genres, g)
		}
	}
	return rows.Err()
}

// List returns all movies ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]movie.Movie, error) {
	return s.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY id`)
}

// Get returns one movie.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*movie.Movie, error) {
	movies, err := s.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	if len(movies) == 0 {
		return nil, ErrNotFound
	}
	return &movies[0], nil
}

// Add inserts the movie and its genres in one transaction.
func (s *SQLiteStore) Add(ctx context.Context, m *movie.Movie) (*movie.Movie, bool, error) {
	if m == nil || !m.Valid() {
		return nil, false, ErrInvalid
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO movies (`+movieColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		m.ID, m.Title, m.OriginalTitle, m.Overview, m.ReleaseDate, m.PosterPath, m.BackdropPath,
		m.Popularity, m.VoteAverage, m.VoteCount, m.Runtime,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert movie %d: %w", m.ID, mapSQLiteError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		existing, err := s.Get(ctx, m.ID)
		return existing, false, err
	}

	for pos, g := range m.Genres {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO genres (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
			g.ID, g.Name); err != nil {
			return nil, false, fmt.Errorf("upsert genre %d: %w", g.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO movie_genres (movie_id, genre_id, position) VALUES (?, ?, ?)`,
			m.ID, g.ID, pos); err != nil {
			return nil, false, fmt.Errorf("link genre %d: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}
	return m, true, nil
}

// Random returns a random movie.
func (s *SQLiteStore) Random(ctx context.Context) (*movie.Movie, error) {
	movies, err := s.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY RANDOM() LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, ErrNotFound
	}
	return &movies[0], nil
}

// Genres counts movies per genre.
func (s *SQLiteStore) Genres(ctx context.Context) ([]movie.GenreCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, COUNT(*) AS n
		FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id
		GROUP BY g.id, g.name
		ORDER BY n DESC, g.name`)
	if err != nil {
		return nil, fmt.Errorf("query genre counts: %w", err)
	}
	defer rows.Close()

	out := []movie.GenreCount{}
	for rows.Next() {
		var gc movie.GenreCount
		if err := rows.Scan(&gc.ID, &gc.Name, &gc.Count); err != nil {
			return nil, fmt.Errorf("scan genre count: %w", err)
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}

// ByGenre returns movies tagged with genreID.
func (s *SQLiteStore) ByGenre(ctx context.Context, genreID int) ([]movie.Movie, error) {
	return s.queryMovies(ctx, `
		SELECT `+movieColumns+` FROM movies
		WHERE id IN (SELECT movie_id FROM movie_genres WHERE genre_id = ?)
		ORDER BY id`, genreID)
}

// Count returns the number of movies.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

// Contributors returns user ids in insertion order.
func (s *SQLiteStore) Contributors(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM movie_users WHERE movie_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("query contributors: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddContributor records a contributor, returning ErrExists on repeats.
func (s *SQLiteStore) AddContributor(ctx context.Context, id int64, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO movie_users (movie_id, user_id) VALUES (?, ?)`, id, userID)
	if err != nil {
		return fmt.Errorf("add contributor %s to %d: %w", userID, id, mapSQLiteError(err))
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
