package timeops

import (
	"context"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// DistinctUntilChanged suppresses a value equal to the last value it
// actually emitted (not merely the last value seen). An error item always
// passes through and does not update the remembered value.
func DistinctUntilChanged[T comparable](in streams.Stream[fluxion.Item[T]]) streams.Stream[fluxion.Item[T]] {
	return DistinctUntilChangedBy(func(a, b T) bool { return a == b }, in)
}

// DistinctUntilChangedBy is DistinctUntilChanged with a caller-supplied
// equality function, for types that aren't comparable or where equality
// means something narrower than ==.
func DistinctUntilChangedBy[T any](eq func(a, b T) bool, in streams.Stream[fluxion.Item[T]]) streams.Stream[fluxion.Item[T]] {
	var last *T

	return streams.New(func(ctx context.Context) (fluxion.Item[T], bool, error) {
		var zero fluxion.Item[T]

		for {
			item, ok, err := in.NextContext(ctx)
			if err != nil || !ok {
				return zero, ok, err
			}
			if item.IsError() {
				return item, true, nil
			}

			v, _ := item.Value()
			if last != nil && eq(*last, v) {
				continue
			}
			last = &v
			return item, true, nil
		}
	})
}
