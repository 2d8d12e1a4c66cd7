// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/mickamy/blogly/internal/config"
	"github.com/mickamy/blogly/internal/database"
	"github.com/mickamy/blogly/orm"
)

// NewSQLite returns a migrated SQLite database in a file under t.TempDir.
// A file is used rather than :memory: because every pooled connection to
// :memory: would see its own empty database.
func NewSQLite(t testing.TB) *orm.DB {
	t.Helper()
	return Open(t, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "blogly.db"),
	})
}

// Open connects with cfg, applies migrations and closes the pool on cleanup.
func Open(t testing.TB, cfg config.DatabaseConfig) *orm.DB {
	t.Helper()

	cfg.Migrate = true
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 4
	}
	conn, err := database.Open(t.Context(), cfg)
	if err != nil {
		t.Fatalf("open %s: %v", cfg.Driver, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn.DB
}
