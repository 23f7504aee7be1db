package combine

import (
	"context"
	"sync"

	"github.com/shivanshkc/fluxion/internal/xmerge"
	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// erased carries a Builder projection's result through the indexed merge
// engine, which needs one common Timestamped type across all inputs even
// though each input's own V may differ.
type erased struct {
	value any
	ts    fluxion.Timestamp
}

// Ts satisfies fluxion.Timestamped.
func (e erased) Ts() fluxion.Timestamp { return e.ts }

// Builder accumulates heterogeneously-typed input streams that all fold
// into one shared state S, emitting a type-erased projection every time any
// input produces a value. Unlike CombineLatest and its siblings, Builder's
// inputs need not share a common Timestamped payload type — each input's
// own project closure is responsible for turning its arrival into the next
// combined value.
//
// The zero value is not useful; construct one with NewBuilder.
type Builder[S any] struct {
	state   S
	mu      sync.Mutex
	pullers []streams.Stream[fluxion.Item[erased]]
}

// NewBuilder starts a Builder with the given initial shared state.
func NewBuilder[S any](initial S) *Builder[S] {
	return &Builder[S]{state: initial}
}

// Add registers in as one of the Builder's inputs. Every time in produces a
// value v, project is invoked under the Builder's single lock with a
// pointer to the shared state and v, and its return value becomes the next
// item Build's stream emits, stamped with its own Timestamp. An error item
// from in is forwarded without invoking project.
//
// Add is a free function, not a method on Builder, because Go forbids a
// method from introducing type parameters beyond its receiver's.
func Add[S, T any, V fluxion.Timestamped](b *Builder[S], in streams.Stream[fluxion.Item[T]], project func(*S, T) V) *Builder[S] {
	b.pullers = append(b.pullers, streams.New(func(ctx context.Context) (fluxion.Item[erased], bool, error) {
		var zero fluxion.Item[erased]

		item, ok, err := in.NextContext(ctx)
		if err != nil || !ok {
			return zero, ok, err
		}
		if item.IsError() {
			fe, _ := item.Error()
			return fluxion.Err[erased](fe), true, nil
		}

		v, _ := item.Value()
		b.mu.Lock()
		result := project(&b.state, v)
		b.mu.Unlock()

		return fluxion.Val(erased{value: result, ts: result.Ts()}), true, nil
	}))
	return b
}

// Build routes every added input through the same indexed ordered merge
// engine the rest of this package uses, so a combined value is always
// emitted in Timestamp order across inputs, ties broken by add order. Each
// emitted value is stamped with the Timestamp of the projection result that
// produced it, not a freshly minted one.
func (b *Builder[S]) Build(ctx context.Context) streams.Stream[fluxion.Item[fluxion.Stamped[any]]] {
	merged := xmerge.Merge(ctx, b.pullers)

	return streams.Map(merged, func(idx xmerge.Indexed[erased]) fluxion.Item[fluxion.Stamped[any]] {
		if idx.Item.IsError() {
			fe, _ := idx.Item.Error()
			return fluxion.Err[fluxion.Stamped[any]](fe)
		}
		v, _ := idx.Item.Value()
		return fluxion.Val(fluxion.WithTimestamp(v.value, v.ts))
	})
}
