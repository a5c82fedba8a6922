package store

import "errors"

var (
	// ErrNotFound indicates the requested movie doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrExists indicates the user is already recorded as a contributor.
	ErrExists = errors.New("already exists")

	// ErrInvalid indicates a movie record without an id or title.
	ErrInvalid = errors.New("invalid movie")
)
