package orm

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL is the Dialect for MySQL / MariaDB.
var MySQL Dialect = mysqlDialect{}

type mysqlDialect struct{}

func (mysqlDialect) Name() string                    { return "mysql" }
func (mysqlDialect) Placeholder(_ int) string        { return "?" }
func (mysqlDialect) QuoteIdent(name string) string   { return "`" + name + "`" }
func (mysqlDialect) UseReturning() bool              { return false }
func (mysqlDialect) ReturningClause(_ string) string { return "" }

// Server error numbers for integrity failures:
// 1048 column cannot be null, 1062 duplicate entry,
// 1216/1217/1451/1452 foreign key checks, 1406 value too long for its column.
func (mysqlDialect) IsConstraintViolation(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	switch myErr.Number {
	case 1048, 1062, 1216, 1217, 1406, 1451, 1452:
		return true
	default:
		return false
	}
}
