package timeops

import (
	"context"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// Scan folds values from in into a running state S, emitting the updated
// state after each value. An error item is forwarded unchanged and skips
// the reduce step entirely, so state only ever reflects values that were
// actually folded.
func Scan[T, S any](initial S, reduce func(S, T) S, in streams.Stream[fluxion.Item[T]]) streams.Stream[fluxion.Item[S]] {
	state := initial

	return streams.New(func(ctx context.Context) (fluxion.Item[S], bool, error) {
		var zero fluxion.Item[S]

		item, ok, err := in.NextContext(ctx)
		if err != nil || !ok {
			return zero, ok, err
		}
		if item.IsError() {
			fe, _ := item.Error()
			return fluxion.Err[S](fe), true, nil
		}

		v, _ := item.Value()
		state = reduce(state, v)
		return fluxion.Val(state), true, nil
	})
}
