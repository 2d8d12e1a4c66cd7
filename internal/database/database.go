// Package database opens the blogly connection pool and keeps its schema current.
package database

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/mickamy/blogly/internal/config"
	"github.com/mickamy/blogly/orm"
)

// Conn owns the pool behind DB. Close it once at shutdown.
type Conn struct {
	DB     *orm.DB
	driver string
	raw    *sql.DB
	pool   *pgxpool.Pool // postgres only
}

// Open connects to the configured database, verifies the connection and,
// when cfg.Migrate is set, applies pending migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Conn, error) {
	c := &Conn{driver: cfg.Driver}

	var d orm.Dialect
	switch cfg.Driver {
	case config.DriverSQLite:
		raw, err := sql.Open(orm.SQLite.Name(), sqliteDSN(cfg.DSN))
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite3")
		}
		c.raw, d = raw, orm.SQLite
	case config.DriverPostgres:
		pool, err := openPgxPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.pool = pool
		c.raw, d = stdlib.OpenDBFromPool(pool), orm.PostgreSQL
	case config.DriverMySQL:
		raw, err := openMySQL(cfg.DSN)
		if err != nil {
			return nil, err
		}
		c.raw, d = raw, orm.MySQL
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if cfg.Driver != config.DriverPostgres {
		c.raw.SetMaxOpenConns(cfg.MaxOpenConns)
		c.raw.SetMaxIdleConns(cfg.MaxIdleConns)
		c.raw.SetConnMaxLifetime(cfg.ConnMaxLifetime.Duration)
	}

	c.DB = orm.New(c.raw, d)
	if cfg.Echo {
		c.DB = c.DB.Debug(orm.StdLogger{})
	}

	if err := c.DB.PingContext(ctx); err != nil {
		_ = c.Close()
		return nil, errors.Wrapf(err, "ping %s", cfg.Driver)
	}
	log.Printf("[DB] connected (driver=%s)", cfg.Driver)

	if cfg.Migrate {
		if err := c.Migrate(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Close closes the *sql.DB and, for postgres, the pgx pool underneath it.
func (c *Conn) Close() error {
	err := c.raw.Close()
	if c.pool != nil {
		c.pool.Close()
	}
	return errors.Wrap(err, "close database")
}

// sqliteDSN turns on foreign key enforcement, waits on locks instead of
// failing with SQLITE_BUSY, and takes the write lock when a transaction begins.
func sqliteDSN(dsn string) string {
	params := []string{"_foreign_keys=on", "_busy_timeout=5000", "_txlock=immediate"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var add []string
	for _, p := range params {
		key := p[:strings.IndexByte(p, '=')+1]
		if !strings.Contains(dsn, key) {
			add = append(add, p)
		}
	}
	if len(add) == 0 {
		return dsn
	}
	return dsn + sep + strings.Join(add, "&")
}

func openPgxPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "parse postgres dsn")
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns) //nolint:gosec // small config value
	}
	if cfg.ConnMaxLifetime.Duration > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime.Duration
	}
	pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	return pool, nil
}

// openMySQL forces parseTime so DATETIME columns scan into time.Time, allows
// multi-statement migration files and runs in strict mode so overlong values
// fail instead of being truncated.
func openMySQL(dsn string) (*sql.DB, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse mysql dsn")
	}
	mcfg.ParseTime = true
	mcfg.MultiStatements = true
	if mcfg.Params == nil {
		mcfg.Params = map[string]string{}
	}
	if _, ok := mcfg.Params["sql_mode"]; !ok {
		mcfg.Params["sql_mode"] = "'STRICT_ALL_TABLES'"
	}

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, errors.Wrap(err, "mysql connector")
	}
	return sql.OpenDB(connector), nil
}
