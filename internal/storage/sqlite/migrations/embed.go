package migrations

import "embed"

// FS contains embedded SQLite migrations for the room directory.
//
//go:embed *.sql
var FS embed.FS
