// Package scope holds reusable query fragments that any orm.Query can apply.
package scope

import "strings"

// Applier receives fragments. orm.Query implements it; keeping the
// interface here lets orm import scope and not the other way round.
type Applier interface {
	ApplyWhere(clause string, args []any)
	ApplyOrderBy(clause string)
	ApplyLimit(n int)
	ApplyOffset(n int)
}

// Scope is a fragment applied to a query. Scopes hold no state of their own
// and can be shared.
type Scope func(a Applier)

func (s Scope) Apply(a Applier) {
	if s != nil {
		s(a)
	}
}

// Where adds a condition, e.g. Where("user_id = ?", 7).
func Where(clause string, args ...any) Scope {
	return func(a Applier) { a.ApplyWhere(clause, args) }
}

// OrderBy appends a raw ORDER BY term.
func OrderBy(clause string) Scope {
	return func(a Applier) { a.ApplyOrderBy(clause) }
}

// Asc orders by each column ascending, in the given priority.
func Asc(columns ...string) Scope {
	return orderEach(columns, "")
}

// Desc orders by each column descending, in the given priority.
func Desc(columns ...string) Scope {
	return orderEach(columns, " DESC")
}

func orderEach(columns []string, dir string) Scope {
	return func(a Applier) {
		for _, c := range columns {
			a.ApplyOrderBy(c + dir)
		}
	}
}

func Limit(n int) Scope {
	return func(a Applier) { a.ApplyLimit(n) }
}

func Offset(n int) Scope {
	return func(a Applier) { a.ApplyOffset(n) }
}

// In matches column against values with one placeholder per value.
// No values matches no rows.
func In[T any](column string, values []T) Scope {
	if len(values) == 0 {
		return Where("1 = 0")
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return Where(column+" IN ("+marks+")", args...)
}

// Combine applies scopes in order as one Scope.
func Combine(scopes ...Scope) Scope {
	return func(a Applier) {
		for _, s := range scopes {
			s.Apply(a)
		}
	}
}
