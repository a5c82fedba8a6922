// Package migrations embeds the SQLite schema of the movie store.
package migrations

import _ "embed"

// Schema creates the movie, genre and contributor tables. Every statement
// is idempotent, so it is applied on each open.
//
//go:embed sql/001_initial.sql
var Schema string
