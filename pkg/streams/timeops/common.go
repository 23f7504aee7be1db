// Package timeops provides the module's stateful, time-driven operators:
// debounce, throttle, sample, timeout, count-based windowing, scan, and the
// distinct-until-changed family, plus a supplemented deterministic
// downsampler (SampleRatio).
package timeops

import (
	"context"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// srcResult is what a puller's background fetch reports.
type srcResult[V any] struct {
	item fluxion.Item[V]
	ok   bool
	err  error
}

// puller keeps at most one fetch from in in flight at a time, letting a
// caller select between the in-flight fetch's result and a timer without
// blocking the timer wait on the source (or vice versa). It mirrors the
// single-outstanding-fetch-per-slot discipline the module's indexed merge
// uses for the same reason.
type puller[V any] struct {
	in       streams.Stream[fluxion.Item[V]]
	inFlight bool
	results  chan srcResult[V]
}

func newPuller[V any](in streams.Stream[fluxion.Item[V]]) *puller[V] {
	return &puller[V]{in: in, results: make(chan srcResult[V], 1)}
}

// ensure starts a fetch if none is already outstanding.
func (p *puller[V]) ensure(ctx context.Context) {
	if p.inFlight {
		return
	}
	p.inFlight = true
	go func() {
		item, ok, err := p.in.NextContext(ctx)
		p.results <- srcResult[V]{item: item, ok: ok, err: err}
	}()
}
