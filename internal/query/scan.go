package query

import (
	"database/sql"
	"slices"
)

// scanInto scans the current row. field maps a column name to its
// destination; columns it returns nil for are read and dropped.
func scanInto(rows *sql.Rows, field func(col string) any) error {
	cols, err := rows.Columns()
	if err != nil {
		return err //nolint:wrapcheck // orm wraps
	}
	dest := make([]any, len(cols))
	for i, col := range cols {
		if dest[i] = field(col); dest[i] == nil {
			dest[i] = new(any)
		}
	}
	return rows.Scan(dest...) //nolint:wrapcheck // orm wraps
}

// columnValues pairs cols with vals, dropping the leading id column unless
// includesPK is set.
func columnValues(cols []string, vals []any, includesPK bool) ([]string, []any) {
	if !includesPK {
		cols, vals = cols[1:], vals[1:]
	}
	return slices.Clone(cols), vals
}
