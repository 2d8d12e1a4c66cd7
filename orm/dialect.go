package orm

import "strings"

// Dialect covers what differs between the supported engines: bind
// parameters, identifier quoting, key retrieval after INSERT and the
// driver's constraint errors.
type Dialect interface {
	// Name is the database/sql driver name.
	Name() string
	// Placeholder is the bind parameter for the 1-based index.
	Placeholder(index int) string
	QuoteIdent(name string) string
	// UseReturning is true when generated keys come back through
	// ReturningClause instead of LastInsertId.
	UseReturning() bool
	ReturningClause(pk string) string
	IsConstraintViolation(err error) bool
}

// rebind rewrites the "?" parameters of query for d.
func rebind(d Dialect, query string) string {
	if d.Placeholder(1) == "?" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for {
		i := strings.IndexByte(query, '?')
		if i < 0 {
			b.WriteString(query)
			return b.String()
		}
		n++
		b.WriteString(query[:i])
		b.WriteString(d.Placeholder(n))
		query = query[i+1:]
	}
}
