// Package repo exposes the blogly data access operations.
// Every mutating call runs in one transaction and commits before returning.
package repo

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/mickamy/blogly/orm"
	"github.com/mickamy/blogly/scope"
)

var (
	// ErrNotFound reports that the requested row does not exist.
	ErrNotFound = fmt.Errorf("repo: %w", orm.ErrNotFound)

	// ErrConstraint reports a unique, foreign key or not-null violation.
	// The driver error stays reachable through errors.As.
	ErrConstraint = fmt.Errorf("repo: %w", orm.ErrConstraint)
)

type constraintError struct {
	cause error
}

func (e *constraintError) Error() string        { return "constraint violation: " + e.cause.Error() }
func (e *constraintError) Unwrap() error        { return e.cause }
func (e *constraintError) Is(target error) bool { return target == ErrConstraint }

func wrap(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConstraint):
		return errors.Wrapf(err, format, args...)
	case errors.Is(err, orm.ErrNotFound):
		return errors.Wrapf(ErrNotFound, format, args...)
	case orm.IsConstraint(err):
		return errors.Wrapf(&constraintError{cause: err}, format, args...)
	default:
		return errors.Wrapf(err, format, args...)
	}
}

// byIDs loads the rows whose id is in ids, ordered by id.
// Unknown ids are skipped; no ids yields an empty slice.
func byIDs[T any](ctx context.Context, q *orm.Query[T], ids []int) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	rows, err := q.Scopes(scope.In("id", ids)).OrderBy("id").All(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// mustExist returns orm.ErrNotFound unless the row with id is in q's table.
func mustExist[T any](ctx context.Context, q *orm.Query[T], id int) error {
	ok, err := q.Where("id = ?", id).Exists(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return orm.ErrNotFound
	}
	return nil
}
