// Package migrations embeds the SQL migration files so they can be applied
// by the goose programmatic API in tests and at store bootstrap.
// Postgres and SQLite each get their own directory because column types differ.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var all embed.FS

// Postgres holds the migrations for the Postgres key-value table.
var Postgres = mustSub("postgres")

// SQLite holds the migrations for the SQLite key-value table.
var SQLite = mustSub("sqlite")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(all, dir)
	if err != nil {
		panic("migrations: " + err.Error())
	}
	return sub
}

// Up applies every pending migration in fsys to db using the given dialect.
func Up(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("migrations.Up: create provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrations.Up: %w", err)
	}
	return nil
}
