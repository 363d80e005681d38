package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/itinerary/backend/migrations"
)

// Supported values for Options.Driver.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Drivers lists every supported driver name.
func Drivers() []string {
	return []string{DriverFile, DriverSQLite, DriverPostgres, DriverMemory}
}

// Options selects and locates a KVRepo backend.
type Options struct {
	// Driver is one of the Driver* constants.
	Driver string
	// Path is the directory for the file driver or the database file for sqlite.
	Path string
	// DatabaseURL is the Postgres connection string for the postgres driver.
	DatabaseURL string
}

// Open constructs the KVRepo described by opts. SQL backends are migrated
// before Open returns. The caller must Close the returned repo.
func Open(ctx context.Context, opts Options) (KVRepo, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryKVRepo(), nil
	case DriverFile:
		return NewFileKVRepo(opts.Path)
	case DriverSQLite:
		db, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteKVRepo(db), nil
	case DriverPostgres:
		return openPostgres(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("repo.Open: unknown driver %q", opts.Driver)
	}
}

// pooledKVRepo owns the pool behind a pgKVRepo and closes it on Close.
type pooledKVRepo struct {
	KVRepo
	pool *pgxpool.Pool
}

func (r *pooledKVRepo) Close() error {
	r.pool.Close()
	return nil
}

func openPostgres(ctx context.Context, dsn string) (KVRepo, error) {
	// pgxpool.New does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.Open: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repo.Open: ping: %w", err)
	}

	// goose needs a database/sql handle; borrow one from the pool.
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	if err := migrations.Up(ctx, goose.DialectPostgres, sqlDB, migrations.Postgres); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repo.Open: %w", err)
	}

	return &pooledKVRepo{KVRepo: NewPgKVRepo(pool), pool: pool}, nil
}
