package orm

import (
	"context"
	"database/sql"
	"time"
)

// ScanFunc reads the current row into a T.
type ScanFunc[T any] func(rows *sql.Rows) (T, error)

// ValuesFunc returns the columns of t and their values, in the same order.
// The primary key column is left out when includesPK is false so the
// database can assign it.
type ValuesFunc[T any] func(t *T, includesPK bool) (columns []string, values []any)

// SetPKFunc stores a database-assigned primary key on t.
type SetPKFunc[T any] func(t *T, id int64)

// TimestampFunc stamps t before it is written.
type TimestampFunc[T any] func(t *T, now time.Time)

// PreloaderFunc loads one association for every row of a result.
type PreloaderFunc[T any] func(ctx context.Context, db Querier, results []T) error

// Schema maps T onto a table. Table, Columns, PK, Scan and Values are
// required; the rest may be left zero.
type Schema[T any] struct {
	Table   string
	Columns []string
	PK      string
	Scan    ScanFunc[T]
	Values  ValuesFunc[T]

	// SetPK is nil when the key is not generated by the database; inserts
	// then write the key like any other column.
	SetPK SetPKFunc[T]

	// OnCreate runs before every insert, OnUpdate before every insert and
	// update. Columns in CreatedAt are never updated.
	OnCreate  TimestampFunc[T]
	OnUpdate  TimestampFunc[T]
	CreatedAt []string

	Preloaders map[string]PreloaderFunc[T]
}

func (s *Schema[T]) generatesPK() bool { return s.SetPK != nil }
