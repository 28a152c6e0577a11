// Package sqlfiles embeds the schema migrations for every supported database.
package sqlfiles

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

const (
	SQLITE_DIR   = "sqlite"
	POSTGRES_DIR = "postgres"
)
