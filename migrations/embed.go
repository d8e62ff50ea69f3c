// Package migrations embeds SQL migration files for goose.
package migrations

import "embed"

// FS holds the embedded migration scripts.
//
//go:embed *.sql
var FS embed.FS
