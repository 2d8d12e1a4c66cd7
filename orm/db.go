package orm

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// Querier runs statements for a Query. *DB and *Tx both satisfy it, so a
// query factory works inside and outside a transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	dialect() Dialect
}

// Statement describes one executed statement for a Logger.
type Statement struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
}

// Logger receives every statement after it ran.
type Logger interface {
	Log(ctx context.Context, st Statement)
}

// StdLogger prints statements through L, or the standard logger when L is nil.
type StdLogger struct {
	L *log.Logger
}

func (l StdLogger) Log(_ context.Context, st Statement) {
	printf := log.Printf
	if l.L != nil {
		printf = l.L.Printf
	}
	if st.Err != nil {
		printf("[DB] %s %v (%s) failed: %v", st.SQL, st.Args, st.Elapsed, st.Err)
		return
	}
	printf("[DB] %s %v (%s)", st.SQL, st.Args, st.Elapsed)
}

// executor is what *sql.DB and *sql.Tx have in common.
type executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// session carries the dialect and optional logger shared by DB and Tx.
type session struct {
	ex     executor
	d      Dialect
	logger Logger
}

func (s session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.ex.QueryContext(ctx, query, args...)
	s.log(ctx, query, args, start, err)
	return rows, err //nolint:wrapcheck // callers translate
}

func (s session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := s.ex.ExecContext(ctx, query, args...)
	s.log(ctx, query, args, start, err)
	return res, err //nolint:wrapcheck // callers translate
}

func (s session) log(ctx context.Context, query string, args []any, start time.Time, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Log(ctx, Statement{SQL: query, Args: args, Elapsed: time.Since(start), Err: err})
}

func (s session) dialect() Dialect { return s.d }

// DB is a connection pool bound to a Dialect.
type DB struct {
	session
	raw *sql.DB
}

// New binds db to d.
func New(db *sql.DB, d Dialect) *DB {
	return &DB{session: session{ex: db, d: d}, raw: db}
}

// Debug returns a copy of db that reports every statement to l.
// Transactions begun from the copy report too.
func (db *DB) Debug(l Logger) *DB {
	cp := *db
	cp.logger = l
	return &cp
}

// Dialect reports the dialect the DB was opened with.
func (db *DB) Dialect() Dialect { return db.d }

// PingContext verifies the pool can reach the database.
func (db *DB) PingContext(ctx context.Context) error {
	return db.raw.PingContext(ctx) //nolint:wrapcheck // thin wrapper
}

// Begin starts a transaction.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := db.raw.BeginTx(ctx, nil)
	if err != nil {
		return nil, translateError(db.d, err)
	}
	return &Tx{session: session{ex: tx, d: db.d, logger: db.logger}, raw: tx}, nil
}

// Transaction runs fn in a transaction and commits when fn returns nil.
// An error or panic from fn rolls it back; a panic is re-raised afterwards.
func (db *DB) Transaction(ctx context.Context, fn func(tx *Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return translateError(db.d, err)
	}
	committed = true
	return nil
}

// Close closes the pool.
func (db *DB) Close() error { return db.raw.Close() } //nolint:wrapcheck // thin wrapper

// Tx is a transaction bound to the Dialect of the DB that began it.
type Tx struct {
	session
	raw *sql.Tx
}

func (tx *Tx) Commit() error { return tx.raw.Commit() } //nolint:wrapcheck // thin wrapper

func (tx *Tx) Rollback() error { return tx.raw.Rollback() } //nolint:wrapcheck // thin wrapper
