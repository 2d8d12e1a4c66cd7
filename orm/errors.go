package orm

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a query expects exactly one row but finds none.
var ErrNotFound = errors.New("orm: not found")

// ErrConstraint wraps driver errors caused by a unique, foreign-key,
// not-null or check constraint. The driver error stays in the chain.
var ErrConstraint = errors.New("orm: constraint violation")

// ErrUnscopedDelete is returned by Delete on a query without conditions.
var ErrUnscopedDelete = errors.New("orm: delete without conditions")

// IsConstraint reports whether err was classified as a constraint violation.
func IsConstraint(err error) bool {
	return errors.Is(err, ErrConstraint)
}

func translateError(d Dialect, err error) error {
	if err == nil || errors.Is(err, ErrConstraint) {
		return err
	}
	if d.IsConstraintViolation(err) {
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	}
	return err
}
