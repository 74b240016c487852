package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Direction selects which way Migrate moves the schema.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Migrate applies (Up) or reverts (Down) every embedded migration for the
// configured driver.
func Migrate(opts Options, dir Direction) error {
	dsn, err := dataSourceName(opts)
	if err != nil {
		return err
	}

	// Separate connection: the migrate instance closes it when done.
	migrateDB, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	var driver database.Driver
	switch opts.Driver {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	case DriverPostgres:
		driver, err = migratepostgres.WithInstance(migrateDB, &migratepostgres.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", opts.Driver, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+opts.Driver)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, opts.Driver, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if dir == Down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations %s: %w", dir, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", verr)
	}
	slog.Info("Migrations applied", "driver", opts.Driver, "direction", dir.String(), "version", version, "dirty", dirty)

	return nil
}
