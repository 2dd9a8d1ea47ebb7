// Package assets embeds the SQL migrations applied at startup.
package assets

import "embed"

//go:embed sql/*.sql
var FS embed.FS

// MigrationsDir is the directory inside FS holding the *.sql files.
const MigrationsDir = "sql"
