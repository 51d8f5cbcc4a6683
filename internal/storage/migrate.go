package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var ErrDirtySchema = errors.New("schema left dirty by a failed migration")

// Migrations returns the embedded transaction table migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// RunMigrations applies the pending migrations in source to the database at
// dbPath and returns the schema version it ends on.
func RunMigrations(dbPath string, source fs.FS) (uint, error) {
	var version uint
	err := withMigrator(dbPath, source, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("apply migrations: %w", err)
		}
		v, err := currentVersion(m)
		version = v
		return err
	})
	return version, err
}

// SchemaVersion reports the migration version of the database at dbPath,
// zero when nothing has been applied yet.
func SchemaVersion(dbPath string) (uint, error) {
	var version uint
	err := withMigrator(dbPath, Migrations(), func(m *migrate.Migrate) error {
		v, err := currentVersion(m)
		version = v
		return err
	})
	return version, err
}

func currentVersion(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("read schema version: %w", err)
	case dirty:
		return v, fmt.Errorf("%w: version %d", ErrDirtySchema, v)
	}
	return v, nil
}

// withMigrator runs fn on its own connection, closed when fn returns.
func withMigrator(dbPath string, source fs.FS, fn func(*migrate.Migrate) error) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(source, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	return fn(m)
}
