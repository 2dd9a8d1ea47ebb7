// db.go
//
// Opens the SQLite database and applies the embedded migrations.
package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/results"
)

// openDB opens (and creates if missing) the database at dsn and brings its
// schema up to date.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := results.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	if err := results.Migrate(ctx, db, assets.FS, assets.MigrationsDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Debug().Str("path", dsn).Msg("database ready")
	return db, nil
}
