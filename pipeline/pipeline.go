package pipeline

import "context"

// pull yields the next value; ok is false once the stream is exhausted.
type pull[T any] func(ctx context.Context) (v T, ok bool, err error)

// Pipeline is a lazy stream. Stages run only as a terminal pulls values, one
// at a time, so a stage that stops early keeps the stages before it from
// doing further work.
type Pipeline[T any] struct {
	open func() pull[T]
}

// FromSlice streams items in order, checking ctx before each one.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{open: func() pull[T] {
		i := 0
		return func(ctx context.Context) (T, bool, error) {
			var zero T
			if err := ctx.Err(); err != nil {
				return zero, false, err
			}
			if i >= len(items) {
				return zero, false, nil
			}
			i++
			return items[i-1], true, nil
		}
	}}
}

// Map applies fn to each value. The first error ends the stream.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return &Pipeline[O]{open: func() pull[O] {
		src := p.open()
		return func(ctx context.Context) (O, bool, error) {
			var zero O
			v, ok, err := src(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
			out, err := fn(ctx, v)
			if err != nil {
				return zero, false, err
			}
			return out, true, nil
		}
	}}
}

// TakeWhile passes values through until keep rejects one. The rejected
// value goes to onStop, when set, and the source is not pulled again.
func TakeWhile[T any](p *Pipeline[T], keep func(T) bool, onStop func(T)) *Pipeline[T] {
	return &Pipeline[T]{open: func() pull[T] {
		src := p.open()
		done := false
		return func(ctx context.Context) (T, bool, error) {
			var zero T
			if done {
				return zero, false, nil
			}
			v, ok, err := src(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
			if !keep(v) {
				done = true
				if onStop != nil {
					onStop(v)
				}
				return zero, false, nil
			}
			return v, true, nil
		}
	}}
}

// ForEach pulls every value into fn and returns the first error from
// either side.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	next := p.open()
	for {
		v, ok, err := next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, v); err != nil {
			return err
		}
	}
}
