package streams

import (
	"context"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
)

// StartWith returns a Stream that first yields every element of items, in
// order, then continues with the items of in.
func StartWith[T any](items []fluxion.Item[T], in Stream[fluxion.Item[T]]) Stream[fluxion.Item[T]] {
	i := 0
	prefixDone := false

	return New(func(ctx context.Context) (fluxion.Item[T], bool, error) {
		var zero fluxion.Item[T]
		if !prefixDone {
			select {
			case <-ctx.Done():
				return zero, false, ctx.Err()
			default:
			}
			if i < len(items) {
				v := items[i]
				i++
				return v, true, nil
			}
			prefixDone = true
		}
		return in.next(ctx)
	})
}

// Skip returns a Stream that drops the first n values of in and then yields
// the rest unchanged. Errors count towards n for neither skipping nor
// retaining — they always pass through immediately, without being counted.
func Skip[T any](n int, in Stream[fluxion.Item[T]]) Stream[fluxion.Item[T]] {
	skipped := 0
	return New(func(ctx context.Context) (fluxion.Item[T], bool, error) {
		var zero fluxion.Item[T]
		for {
			if skipped >= n {
				return in.next(ctx)
			}
			item, ok, err := in.next(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
			if item.IsError() {
				return item, true, nil
			}
			skipped++
		}
	})
}

// Take returns a Stream that yields at most n values from in and then ends,
// regardless of whether in has more to give. Errors count towards n for
// neither — they always pass through immediately, without being counted,
// as long as the n-value limit has not yet been reached.
func Take[T any](n int, in Stream[fluxion.Item[T]]) Stream[fluxion.Item[T]] {
	taken := 0
	return New(func(ctx context.Context) (fluxion.Item[T], bool, error) {
		var zero fluxion.Item[T]
		if taken >= n {
			return zero, false, nil
		}
		item, ok, err := in.next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		if item.IsError() {
			return item, true, nil
		}
		taken++
		return item, true, nil
	})
}

// Tap returns a Stream identical to in, invoking f with every value (not
// error) item as it passes through, purely for side effects such as
// logging or metrics. f does not affect what is emitted.
func Tap[T any](f func(T), in Stream[fluxion.Item[T]]) Stream[fluxion.Item[T]] {
	return New(func(ctx context.Context) (fluxion.Item[T], bool, error) {
		item, ok, err := in.next(ctx)
		if err == nil && ok {
			if v, vok := item.Value(); vok {
				f(v)
			}
		}
		return item, ok, err
	})
}

// OnError returns a Stream identical to in, except that error items
// matching pred are swallowed (the stream keeps pulling from in instead of
// forwarding them); every other item, value or non-matching error, passes
// through unchanged.
func OnError[T any](pred func(fluxion.FluxionError) bool, in Stream[fluxion.Item[T]]) Stream[fluxion.Item[T]] {
	return New(func(ctx context.Context) (fluxion.Item[T], bool, error) {
		for {
			item, ok, err := in.next(ctx)
			if err != nil || !ok {
				var zero fluxion.Item[T]
				return zero, ok, err
			}
			if fe, isErr := item.Error(); isErr && pred(fe) {
				continue
			}
			return item, true, nil
		}
	})
}
