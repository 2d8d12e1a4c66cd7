package database

import (
	"embed"
	"log"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"

	"github.com/mickamy/blogly/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending up migration for the connection's driver.
func (c *Conn) Migrate() error {
	m, err := c.migrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate up")
	}
	version, dirty, _ := m.Version()
	log.Printf("[DB] schema at version %d (dirty=%t)", version, dirty)
	return nil
}

// Rollback reverts the most recent migration.
func (c *Conn) Rollback() error {
	m, err := c.migrator()
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate down")
	}
	log.Printf("[DB] rolled back last migration")
	return nil
}

// The migrate instance is never closed: its database drivers close the
// *sql.DB they were handed, which Conn still owns.
func (c *Conn) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+c.driver)
	if err != nil {
		return nil, errors.Wrap(err, "migration source")
	}

	var drv migratedb.Driver
	switch c.driver {
	case config.DriverSQLite:
		drv, err = migratesqlite.WithInstance(c.raw, &migratesqlite.Config{})
	case config.DriverPostgres:
		drv, err = migratepgx.WithInstance(c.raw, &migratepgx.Config{})
	case config.DriverMySQL:
		drv, err = migratemysql.WithInstance(c.raw, &migratemysql.Config{})
	default:
		return nil, errors.Errorf("no migrations for driver %q", c.driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "migration driver %s", c.driver)
	}

	m, err := migrate.NewWithInstance("iofs", src, c.driver, drv)
	if err != nil {
		return nil, errors.Wrap(err, "migrate instance")
	}
	return m, nil
}
