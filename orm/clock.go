package orm

import (
	"context"
	"time"
)

// Clock supplies the time written by OnCreate and OnUpdate hooks.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type clockKey struct{}

// WithClock makes writes under ctx read the time from c.
func WithClock(ctx context.Context, c Clock) context.Context {
	return context.WithValue(ctx, clockKey{}, c)
}

// now is UTC at microsecond precision, the finest all three engines keep.
func now(ctx context.Context) time.Time {
	c, ok := ctx.Value(clockKey{}).(Clock)
	if !ok {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return c.Now().UTC().Truncate(time.Microsecond)
}
