package orm

import (
	"strconv"
	"strings"
)

// The builders below write "?" placeholders and rebind once at the end.

func (q *Query[T]) ident(name string) string {
	return q.db.dialect().QuoteIdent(name)
}

func (q *Query[T]) identList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = q.ident(n)
	}
	return strings.Join(quoted, ", ")
}

func (q *Query[T]) finish(b *strings.Builder) string {
	return rebind(q.db.dialect(), b.String())
}

func (q *Query[T]) selectSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT " + q.identList(q.schema.Columns) + " FROM " + q.ident(q.schema.Table))
	args := q.writeWhere(&b)
	if len(q.orderBys) > 0 {
		b.WriteString(" ORDER BY " + strings.Join(q.orderBys, ", "))
	}
	if q.limit != nil {
		b.WriteString(" LIMIT " + strconv.Itoa(*q.limit))
	}
	if q.offset != nil {
		b.WriteString(" OFFSET " + strconv.Itoa(*q.offset))
	}
	return q.finish(&b), args
}

func (q *Query[T]) countSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM " + q.ident(q.schema.Table))
	args := q.writeWhere(&b)
	return q.finish(&b), args
}

func (q *Query[T]) insertSQL(cols []string, rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO " + q.ident(q.schema.Table) + " (" + q.identList(cols) + ") VALUES ")
	row := "(" + placeholders(len(cols)) + ")"
	for i := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(row)
	}
	return q.finish(&b)
}

func (q *Query[T]) updateSQL(setCols []string) string {
	var b strings.Builder
	b.WriteString("UPDATE " + q.ident(q.schema.Table) + " SET ")
	for i, c := range setCols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(q.ident(c) + " = ?")
	}
	b.WriteString(" WHERE " + q.ident(q.schema.PK) + " = ?")
	return q.finish(&b)
}

func (q *Query[T]) deleteSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("DELETE FROM " + q.ident(q.schema.Table))
	args := q.writeWhere(&b)
	return q.finish(&b), args
}

func (q *Query[T]) writeWhere(b *strings.Builder) []any {
	var args []any
	for i, c := range q.conds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(c.clause)
		args = append(args, c.args...)
	}
	return args
}

// placeholders returns n comma-separated "?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
