package orm

import (
	"slices"

	"github.com/mickamy/blogly/scope"
)

// Query is a pending statement against the table of a Schema.
// Builder methods return a copy; a Query can be shared and extended freely.
type Query[T any] struct {
	db     Querier
	schema *Schema[T]

	conds    []cond
	orderBys []string
	limit    *int
	offset   *int
	preloads []string
}

type cond struct {
	clause string
	args   []any
}

// NewQuery starts a query for s on db.
func NewQuery[T any](db Querier, s Schema[T]) *Query[T] {
	return &Query[T]{db: db, schema: &s}
}

func (q *Query[T]) clone() *Query[T] {
	cp := *q
	cp.conds = slices.Clone(q.conds)
	cp.orderBys = slices.Clone(q.orderBys)
	cp.preloads = slices.Clone(q.preloads)
	return &cp
}

// Where adds a condition; conditions are joined with AND.
func (q *Query[T]) Where(clause string, args ...any) *Query[T] {
	cp := q.clone()
	cp.ApplyWhere(clause, args)
	return cp
}

func (q *Query[T]) OrderBy(clause string) *Query[T] {
	cp := q.clone()
	cp.ApplyOrderBy(clause)
	return cp
}

func (q *Query[T]) Limit(n int) *Query[T] {
	cp := q.clone()
	cp.ApplyLimit(n)
	return cp
}

func (q *Query[T]) Offset(n int) *Query[T] {
	cp := q.clone()
	cp.ApplyOffset(n)
	return cp
}

// Preload names associations to load after the rows are read.
func (q *Query[T]) Preload(names ...string) *Query[T] {
	cp := q.clone()
	cp.preloads = append(cp.preloads, names...)
	return cp
}

func (q *Query[T]) Scopes(scopes ...scope.Scope) *Query[T] {
	cp := q.clone()
	for _, s := range scopes {
		s.Apply(cp)
	}
	return cp
}

// The Apply methods mutate q in place and exist for scope.Scope.

func (q *Query[T]) ApplyWhere(clause string, args []any) {
	q.conds = append(q.conds, cond{clause: clause, args: args})
}

func (q *Query[T]) ApplyOrderBy(clause string) { q.orderBys = append(q.orderBys, clause) }
func (q *Query[T]) ApplyLimit(n int)           { q.limit = &n }
func (q *Query[T]) ApplyOffset(n int)          { q.offset = &n }

var _ scope.Applier = (*Query[struct{}])(nil)
