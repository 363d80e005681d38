package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver

	"github.com/pkordes/itinerary/backend/internal/domain"
	"github.com/pkordes/itinerary/backend/migrations"
)

// OpenSQLite opens (or creates) the SQLite database file at path, applies
// connection pragmas, and runs the kv_store migrations.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}

	// WAL allows one writer alongside readers; busy_timeout avoids spurious
	// "database is locked" errors when the CLI and server share a file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("repo.OpenSQLite: %s: %w", p, err)
		}
	}

	if err := migrations.Up(ctx, goose.DialectSQLite3, db, migrations.SQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}
	return db, nil
}

// sqliteKVRepo is the SQLite implementation of KVRepo.
type sqliteKVRepo struct {
	db *sql.DB
}

// NewSQLiteKVRepo constructs a KVRepo over a database opened with OpenSQLite.
// The repo takes ownership of db and closes it on Close.
func NewSQLiteKVRepo(db *sql.DB) KVRepo {
	return &sqliteKVRepo{db: db}
}

func (r *sqliteKVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_store WHERE key = ?`

	var value []byte
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("repo.SQLiteKVRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.SQLiteKVRepo.Get: %w", err)
	}
	return value, nil
}

func (r *sqliteKVRepo) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT (key) DO UPDATE
		SET value      = excluded.value,
		    updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("repo.SQLiteKVRepo.Put: %w", err)
	}
	return nil
}

func (r *sqliteKVRepo) Close() error {
	return r.db.Close()
}
