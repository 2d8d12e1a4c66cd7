package orm

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// SQLite is the Dialect for SQLite through mattn/go-sqlite3.
// Foreign keys are only enforced when the connection enables them
// (_foreign_keys=on in the DSN).
var SQLite Dialect = sqliteDialect{}

type sqliteDialect struct{}

func (sqliteDialect) Name() string                    { return "sqlite3" }
func (sqliteDialect) Placeholder(_ int) string        { return "?" }
func (sqliteDialect) QuoteIdent(name string) string   { return `"` + name + `"` }
func (sqliteDialect) UseReturning() bool              { return false }
func (sqliteDialect) ReturningClause(_ string) string { return "" }

func (sqliteDialect) IsConstraintViolation(err error) bool {
	var sqErr sqlite3.Error
	return errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrConstraint
}
