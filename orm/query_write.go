package orm

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
)

// Create inserts t and stores the generated key on it.
func (q *Query[T]) Create(ctx context.Context, t *T) error {
	return q.insert(ctx, []*T{t})
}

// CreateAll inserts items with one multi-row INSERT. An empty slice is a no-op.
func (q *Query[T]) CreateAll(ctx context.Context, items []*T) error {
	return q.insert(ctx, items)
}

func (q *Query[T]) insert(ctx context.Context, items []*T) error {
	if len(items) == 0 {
		return nil
	}
	s := q.schema

	var cols []string
	vals := make([]any, 0, len(items)*len(s.Columns))
	for i, item := range items {
		q.stampCreate(ctx, item)
		c, v := s.Values(item, !s.generatesPK())
		if i == 0 {
			cols = c
		}
		vals = append(vals, v...)
	}

	d := q.db.dialect()
	stmt := q.insertSQL(cols, len(items))

	if s.generatesPK() && d.UseReturning() {
		ids, err := q.returningIDs(ctx, stmt+d.ReturningClause(s.PK), vals)
		if err != nil {
			return err
		}
		if len(ids) != len(items) {
			return fmt.Errorf("orm: insert into %s returned %d ids for %d rows", s.Table, len(ids), len(items))
		}
		for i, id := range ids {
			s.SetPK(items[i], id)
		}
		return nil
	}

	res, err := q.db.ExecContext(ctx, stmt, vals...)
	if err != nil {
		return translateError(d, err)
	}
	if !s.generatesPK() {
		return nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	// MySQL reports the first id of a multi-row insert, SQLite the last.
	if d == SQLite {
		id -= int64(len(items) - 1)
	}
	for i, item := range items {
		s.SetPK(item, id+int64(i))
	}
	return nil
}

func (q *Query[T]) returningIDs(ctx context.Context, stmt string, vals []any) ([]int64, error) {
	d := q.db.dialect()
	rows, err := q.db.QueryContext(ctx, stmt, vals...)
	if err != nil {
		return nil, translateError(d, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err //nolint:wrapcheck // pass through
		}
		ids = append(ids, id)
	}
	return ids, translateError(d, rows.Err())
}

func (q *Query[T]) stampCreate(ctx context.Context, t *T) {
	s := q.schema
	if s.OnCreate == nil && s.OnUpdate == nil {
		return
	}
	ts := now(ctx)
	if s.OnCreate != nil {
		s.OnCreate(t, ts)
	}
	if s.OnUpdate != nil {
		s.OnUpdate(t, ts)
	}
}

// Update writes every column of t except the key and the CreatedAt
// columns to the row with t's key. It returns ErrNotFound when that row
// does not exist.
func (q *Query[T]) Update(ctx context.Context, t *T) error {
	s := q.schema
	if s.OnUpdate != nil {
		s.OnUpdate(t, now(ctx))
	}

	cols, vals := s.Values(t, true)
	var (
		setCols []string
		args    []any
		key     any
		hasKey  bool
	)
	for i, col := range cols {
		switch {
		case col == s.PK:
			key, hasKey = vals[i], true
		case slices.Contains(s.CreatedAt, col):
		default:
			setCols = append(setCols, col)
			args = append(args, vals[i])
		}
	}
	if !hasKey {
		return fmt.Errorf("orm: %s values omit key column %q", s.Table, s.PK)
	}

	res, err := q.db.ExecContext(ctx, q.updateSQL(setCols), append(args, key)...)
	if err != nil {
		return translateError(q.db.dialect(), err)
	}
	return q.requireAffected(res)
}

// MySQL counts matched rows whose values did not change as unaffected, so
// a zero there does not prove the row is missing.
func (q *Query[T]) requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	if n == 0 && q.db.dialect() != MySQL {
		return ErrNotFound
	}
	return nil
}

// Delete removes the matching rows and returns how many went. A query
// without conditions is refused with ErrUnscopedDelete.
func (q *Query[T]) Delete(ctx context.Context) (int64, error) {
	if len(q.conds) == 0 {
		return 0, ErrUnscopedDelete
	}
	stmt, args := q.deleteSQL()
	res, err := q.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, translateError(q.db.dialect(), err)
	}
	return res.RowsAffected() //nolint:wrapcheck // pass through
}
