package orm

import (
	"context"
	"errors"
	"fmt"
)

// All returns every matching row and then runs the requested preloaders.
func (q *Query[T]) All(ctx context.Context) ([]T, error) {
	stmt, args := q.selectSQL()
	rows, err := q.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	var result []T
	for rows.Next() {
		item, err := q.schema.Scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}

	if err := q.preload(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *Query[T]) preload(ctx context.Context, result []T) error {
	for _, name := range q.preloads {
		fn, ok := q.schema.Preloaders[name]
		if !ok {
			return fmt.Errorf("orm: %s has no association %q", q.schema.Table, name)
		}
		if err := fn(ctx, q.db, result); err != nil {
			return err
		}
	}
	return nil
}

// First returns the first matching row, or ErrNotFound.
func (q *Query[T]) First(ctx context.Context) (T, error) {
	items, err := q.Limit(1).All(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(items) == 0 {
		var zero T
		return zero, ErrNotFound
	}
	return items[0], nil
}

// Count returns the number of matching rows. Order, limit and offset are ignored.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	stmt, args := q.countSQL()
	rows, err := q.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return 0, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err //nolint:wrapcheck // pass through
		}
		return 0, errors.New("orm: count returned no row")
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, err //nolint:wrapcheck // pass through
	}
	return n, rows.Err() //nolint:wrapcheck // pass through
}

// Exists reports whether any row matches.
func (q *Query[T]) Exists(ctx context.Context) (bool, error) {
	n, err := q.Count(ctx)
	return n > 0, err
}
