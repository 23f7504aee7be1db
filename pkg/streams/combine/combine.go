// Package combine provides the multi-stream combinators built on top of
// the module's internal indexed ordered merge: combine-latest,
// with-latest-from, take-latest-when, emit-when, take-while-with, and a
// heterogeneous stateful-merge builder.
package combine

import (
	"context"

	"github.com/shivanshkc/fluxion/internal/xmerge"
	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// CombinedState is a snapshot of the latest value seen from each input of a
// multi-stream combinator, plus the Timestamp of whichever input produced
// this snapshot.
type CombinedState[V fluxion.Timestamped] struct {
	slots []*V
	ts    fluxion.Timestamp
}

// Len returns the number of inputs this state tracks.
func (c CombinedState[V]) Len() int { return len(c.slots) }

// Get returns the latest value seen from input i, or the zero value and
// false if input i hasn't produced anything yet.
func (c CombinedState[V]) Get(i int) (V, bool) {
	if c.slots[i] == nil {
		var zero V
		return zero, false
	}
	return *c.slots[i], true
}

// Ts returns the Timestamp of the input that produced this snapshot.
func (c CombinedState[V]) Ts() fluxion.Timestamp { return c.ts }

// Complete reports whether every input has produced at least one value.
func (c CombinedState[V]) Complete() bool {
	for _, s := range c.slots {
		if s == nil {
			return false
		}
	}
	return true
}

func (c CombinedState[V]) clone() CombinedState[V] {
	slots := make([]*V, len(c.slots))
	copy(slots, c.slots)
	return CombinedState[V]{slots: slots, ts: c.ts}
}

// CombineLatest merges ins and emits a CombinedState every time a new value
// arrives from any input, once every input has produced at least one value.
// keep is consulted on every candidate snapshot (it is never called for an
// error item, which is always forwarded) — returning false swallows that
// particular emission without ending the stream.
func CombineLatest[V fluxion.Timestamped](ctx context.Context, keep func(CombinedState[V]) bool, ins ...streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[CombinedState[V]]] {
	merged := xmerge.Merge(ctx, ins)
	state := CombinedState[V]{slots: make([]*V, len(ins))}

	return streams.New(func(pctx context.Context) (fluxion.Item[CombinedState[V]], bool, error) {
		var zero fluxion.Item[CombinedState[V]]
		for {
			ind, ok, err := merged.NextContext(pctx)
			if err != nil || !ok {
				return zero, false, err
			}
			if ind.Item.IsError() {
				fe, _ := ind.Item.Error()
				return fluxion.Err[CombinedState[V]](fe), true, nil
			}

			v, _ := ind.Item.Value()
			state.slots[ind.Index] = &v
			state.ts = v.Ts()

			if !state.Complete() {
				continue
			}
			snapshot := state.clone()
			if !keep(snapshot) {
				continue
			}
			return fluxion.Val(snapshot), true, nil
		}
	})
}

// WithLatestFrom emits project(state) every time primary produces a value,
// as long as secondary has produced at least one value by then; updates
// from secondary alone never trigger an emission, they only refresh the
// cached state primary's next value will be projected against.
func WithLatestFrom[V fluxion.Timestamped, R any](ctx context.Context, project func(CombinedState[V]) R, primary, secondary streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[R]] {
	merged := xmerge.Merge(ctx, []streams.Stream[fluxion.Item[V]]{primary, secondary})
	state := CombinedState[V]{slots: make([]*V, 2)}

	return streams.New(func(pctx context.Context) (fluxion.Item[R], bool, error) {
		var zero fluxion.Item[R]
		for {
			ind, ok, err := merged.NextContext(pctx)
			if err != nil || !ok {
				return zero, false, err
			}
			if ind.Item.IsError() {
				fe, _ := ind.Item.Error()
				return fluxion.Err[R](fe), true, nil
			}

			v, _ := ind.Item.Value()
			state.slots[ind.Index] = &v
			state.ts = v.Ts()

			if ind.Index != 0 || !state.Complete() {
				continue
			}
			return fluxion.Val(project(state.clone())), true, nil
		}
	})
}

// TakeLatestWhen caches the latest value from source and, every time
// trigger produces a value v for which predicate(v) holds, re-emits the
// cached source value. A trigger firing before source has ever produced a
// value is swallowed.
func TakeLatestWhen[V fluxion.Timestamped](ctx context.Context, predicate func(V) bool, source, trigger streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[V]] {
	merged := xmerge.Merge(ctx, []streams.Stream[fluxion.Item[V]]{source, trigger})
	var cached *V

	return streams.New(func(pctx context.Context) (fluxion.Item[V], bool, error) {
		var zero fluxion.Item[V]
		for {
			ind, ok, err := merged.NextContext(pctx)
			if err != nil || !ok {
				return zero, false, err
			}
			if ind.Item.IsError() {
				return ind.Item, true, nil
			}

			v, _ := ind.Item.Value()
			if ind.Index == 0 {
				cached = &v
				continue
			}
			// ind.Index == 1: trigger.
			if cached == nil || !predicate(v) {
				continue
			}
			return fluxion.Val(*cached), true, nil
		}
	})
}

// EmitWhen caches the latest value from both source and filter, and emits
// the cached source value whenever predicate(state) holds, whichever of
// the two inputs just triggered the check.
func EmitWhen[V fluxion.Timestamped](ctx context.Context, predicate func(CombinedState[V]) bool, source, filter streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[V]] {
	merged := xmerge.Merge(ctx, []streams.Stream[fluxion.Item[V]]{source, filter})
	state := CombinedState[V]{slots: make([]*V, 2)}

	return streams.New(func(pctx context.Context) (fluxion.Item[V], bool, error) {
		var zero fluxion.Item[V]
		for {
			ind, ok, err := merged.NextContext(pctx)
			if err != nil || !ok {
				return zero, false, err
			}
			if ind.Item.IsError() {
				return ind.Item, true, nil
			}

			v, _ := ind.Item.Value()
			state.slots[ind.Index] = &v
			state.ts = v.Ts()

			src, hasSrc := state.Get(0)
			if !hasSrc || !predicate(state.clone()) {
				continue
			}
			return fluxion.Val(src), true, nil
		}
	})
}

// TakeWhileWith emits every value from source unmodified, as long as the
// latest value from filter satisfies predicate. The moment a filter value
// fails predicate, the combined stream ends entirely — it does not merely
// drop the next source value, it terminates.
func TakeWhileWith[V fluxion.Timestamped](ctx context.Context, predicate func(V) bool, source, filter streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[V]] {
	merged := xmerge.Merge(ctx, []streams.Stream[fluxion.Item[V]]{source, filter})
	ended := false

	return streams.New(func(pctx context.Context) (fluxion.Item[V], bool, error) {
		var zero fluxion.Item[V]
		if ended {
			return zero, false, nil
		}
		for {
			ind, ok, err := merged.NextContext(pctx)
			if err != nil {
				ended = true
				return zero, false, err
			}
			if !ok {
				ended = true
				return zero, false, nil
			}
			if ind.Item.IsError() {
				ended = true
				return ind.Item, true, nil
			}

			if ind.Index == 1 {
				v, _ := ind.Item.Value()
				if !predicate(v) {
					ended = true
					return zero, false, nil
				}
				continue
			}
			return ind.Item, true, nil
		}
	})
}
