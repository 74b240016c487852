// Package sqlstore provides a SQL implementation of the storage.Store
// interface. It runs on SQLite (pure Go driver) or PostgreSQL.
package sqlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitbill/internal/storage"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Options configure how the store connects.
type Options struct {
	// Driver is DriverSQLite or DriverPostgres.
	Driver string
	// URL is a file path for SQLite or a connection string for PostgreSQL.
	URL string
	// MaxOpenConns caps the connection pool. Zero leaves the driver default.
	MaxOpenConns int
	// AutoMigrate applies pending migrations on open.
	AutoMigrate bool
}

// Store implements storage.Store on top of database/sql.
type Store struct {
	db     *sqlx.DB
	driver string
	sb     squirrel.StatementBuilderType
	now    func() time.Time
}

// Open connects to the database described by opts and verifies the
// connection. The returned store owns the pool; call Close at shutdown.
func Open(ctx context.Context, opts Options) (*Store, error) {
	dsn, err := dataSourceName(opts)
	if err != nil {
		return nil, err
	}

	if opts.AutoMigrate {
		if err := Migrate(opts, Up); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewWithDB(db, opts.Driver), nil
}

// NewWithDB wraps an already opened handle. The driver name selects the
// placeholder format.
func NewWithDB(db *sqlx.DB, driver string) *Store {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if driver == DriverPostgres {
		format = squirrel.Dollar
	}
	return &Store{
		db:     db,
		driver: driver,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(format),
		now:    time.Now,
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// dataSourceName returns the driver DSN for opts. For SQLite it creates the
// parent directory and turns on foreign keys for every pooled connection.
func dataSourceName(opts Options) (string, error) {
	switch opts.Driver {
	case DriverSQLite:
		path := strings.TrimPrefix(opts.URL, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
	case DriverPostgres:
		return opts.URL, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func (s *Store) timestamp() int64 {
	return s.now().Unix()
}
