// Package v1 implements the movie store REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vmunix/movieclub/internal/movie"
	"github.com/vmunix/movieclub/internal/store"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	log  *slog.Logger
}

// NewWithDeps creates a new v1 API server with explicit dependencies.
func NewWithDeps(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDependency, err)
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	return &Server{deps: deps, log: log.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Movies
	mux.HandleFunc("GET /api/movies", s.listMovies)
	mux.HandleFunc("POST /api/movies", s.addMovie)
	mux.HandleFunc("GET /api/movies/{id}", s.getMovie)
	mux.HandleFunc("GET /api/random", s.randomMovie)

	// GET /api/movies/genre/{id} and GET /api/movies/{id}/users overlap
	// as mux patterns, so both go through one dispatcher.
	mux.HandleFunc("GET /api/movies/{first}/{second}", s.movieSubresource)
	mux.HandleFunc("POST /api/movies/{id}/users", s.addContributor)

	// Genres
	mux.HandleFunc("GET /api/genres", s.listGenres)

	// System
	mux.HandleFunc("GET /api/status", s.getStatus)
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return LogRequests(mux, s.log)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Movies  int    `json:"movies"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

func (s *Server) storeError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", what+" not found")
		return
	}
	s.log.Error("store error", "error", err)
	writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
}

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.deps.Store.List(r.Context())
	if err != nil {
		s.storeError(w, err, "Movies")
		return
	}

	resp := make(map[string]movie.Movie, len(movies))
	for _, m := range movies {
		resp[strconv.FormatInt(m.ID, 10)] = m
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	m, err := s.deps.Store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, err, "Movie")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) addMovie(w http.ResponseWriter, r *http.Request) {
	var m movie.Movie
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if !m.Valid() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id and title are required")
		return
	}

	stored, created, err := s.deps.Store.Add(r.Context(), &m)
	if err != nil {
		if errors.Is(err, store.ErrInvalid) {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		s.storeError(w, err, "Movie")
		return
	}
	if created {
		s.log.Info("movie created", "movie_id", stored.ID, "title", stored.Title)
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) randomMovie(w http.ResponseWriter, r *http.Request) {
	m, err := s.deps.Store.Random(r.Context())
	if err != nil {
		s.storeError(w, err, "Movies")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) listGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.deps.Store.Genres(r.Context())
	if err != nil {
		s.storeError(w, err, "Genres")
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func (s *Server) movieSubresource(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.PathValue("first") == "genre":
		s.moviesByGenre(w, r, "second")
	case r.PathValue("second") == "users":
		s.listContributors(w, r, "first")
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	}
}

func (s *Server) moviesByGenre(w http.ResponseWriter, r *http.Request, param string) {
	id, err := pathID(r, param)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	movies, err := s.deps.Store.ByGenre(r.Context(), int(id))
	if err != nil {
		s.storeError(w, err, "Genre")
		return
	}
	if movies == nil {
		movies = []movie.Movie{}
	}
	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) listContributors(w http.ResponseWriter, r *http.Request, param string) {
	id, err := pathID(r, param)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	users, err := s.deps.Store.Contributors(r.Context(), id)
	if err != nil {
		s.storeError(w, err, "Movie")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) addContributor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user_id is required")
		return
	}

	if err := s.deps.Store.AddContributor(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrExists) {
			writeError(w, http.StatusBadRequest, "ALREADY_EXISTS", "Failed to add user to movie")
			return
		}
		s.storeError(w, err, "Movie")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Store.Count(r.Context())
	if err != nil {
		s.storeError(w, err, "Movies")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Version: s.deps.Version, Movies: n})
}
