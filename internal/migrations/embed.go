// Package migrations provides embedded SQL migration files.
package migrations

import "embed"

// FS holds the goose migrations under sql/.
//
//go:embed sql/*.sql
var FS embed.FS

// Dir is the migrations directory inside FS.
const Dir = "sql"
