package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/movieclub/internal/movie"
)

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.Add(ctx, &movie.Movie{ID: 550, Title: "Fight Club"})
	require.NoError(t, err)
	require.NoError(t, s.AddContributor(ctx, 550, "U123"))

	data, err := os.ReadFile(filepath.Join(dir, "550.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"title\": \"Fight Club\"")

	data, err = os.ReadFile(filepath.Join(dir, "movie_users.json"))
	require.NoError(t, err)
	var users map[string][]string
	require.NoError(t, json.Unmarshal(data, &users))
	assert.Equal(t, map[string][]string{"550": {"U123"}}, users)
}

func TestFileStore_SkipsNonMovieFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	write("550.json", `{"id": 550, "title": "Fight Club"}`)
	write("popular_movies.json", `{"id": 1, "title": "Not a catalog entry"}`)
	write("movie_users.json", `{"550": ["U1"]}`)
	write("broken.json", `{not json`)
	write("untitled.json", `{"id": 7}`)
	write("notes.txt", `hello`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	movies, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, int64(550), movies[0].ID)
}

func TestFileStore_CorruptContributorsTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "movie_users.json"), []byte("[oops"), 0644))

	users, err := s.Contributors(context.Background(), 550)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, s.AddContributor(context.Background(), 550, "U1"))
	users, err = s.Contributors(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, []string{"U1"}, users)
}

func TestFileStore_ReopenSeesData(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	_, _, err = s1.Add(context.Background(), &movie.Movie{ID: 603, Title: "The Matrix"})
	require.NoError(t, err)

	s2, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	m, err := s2.Get(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", m.Title)
}
