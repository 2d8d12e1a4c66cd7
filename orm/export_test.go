package orm

import (
	"context"
	"database/sql"
	"errors"
)

var errNoRows = errors.New("recorder: queries return no rows")

// Recorder is a Querier that captures statements instead of running them.
// Reads fail with errNoRows; writes succeed with a fixed result unless
// ExecErr is set.
type Recorder struct {
	D          Dialect
	Statements []Statement
	ExecErr    error
}

func NewRecorder(d Dialect) *Recorder {
	return &Recorder{D: d}
}

func (r *Recorder) QueryContext(_ context.Context, query string, args ...any) (*sql.Rows, error) {
	r.Statements = append(r.Statements, Statement{SQL: query, Args: args, Err: errNoRows})
	return nil, errNoRows
}

func (r *Recorder) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	r.Statements = append(r.Statements, Statement{SQL: query, Args: args, Err: r.ExecErr})
	if r.ExecErr != nil {
		return nil, r.ExecErr
	}
	return fixedResult{}, nil
}

// Last returns the latest statement. It panics when nothing ran.
func (r *Recorder) Last() Statement {
	return r.Statements[len(r.Statements)-1]
}

func (r *Recorder) dialect() Dialect { return r.D }

var _ Querier = (*Recorder)(nil)

// fixedResult reports id 41 and one affected row.
type fixedResult struct{}

func (fixedResult) LastInsertId() (int64, error) { return 41, nil }
func (fixedResult) RowsAffected() (int64, error) { return 1, nil }

func Rebind(d Dialect, query string) string { return rebind(d, query) }
