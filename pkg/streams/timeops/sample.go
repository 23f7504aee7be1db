package timeops

import (
	"context"
	"time"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// Sample emits the most recent value from in at most once every d, on a
// fixed tick independent of when values actually arrive. A tick with no new
// value since the last one is silent. When in ends, Sample ends immediately
// without flushing whatever value is still pending — unlike Debounce, a
// value that never got a tick before the source closed is dropped.
func Sample[V fluxion.Timestamped](ctx context.Context, d time.Duration, tm runtime.Timer, in streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[V]] {
	p := newPuller(in)

	var pending *fluxion.Item[V]
	var timerCh <-chan time.Time
	ended := false

	return streams.New(func(pctx context.Context) (fluxion.Item[V], bool, error) {
		var zero fluxion.Item[V]
		if ended {
			return zero, false, nil
		}
		if timerCh == nil && d > 0 {
			timerCh = tm.Sleep(d)
		}

		for {
			p.ensure(pctx)

			select {
			case <-pctx.Done():
				ended = true
				return zero, false, pctx.Err()
			case <-ctx.Done():
				ended = true
				return zero, false, ctx.Err()

			case <-timerCh:
				timerCh = tm.Sleep(d)
				if pending != nil {
					out := *pending
					pending = nil
					return out, true, nil
				}
				continue

			case res := <-p.results:
				p.inFlight = false

				if res.err != nil {
					ended = true
					return zero, false, res.err
				}
				if !res.ok {
					// Strict semantics: no flush of a still-pending value.
					ended = true
					return zero, false, nil
				}
				if res.item.IsError() {
					pending = nil
					return res.item, true, nil
				}

				item := res.item
				pending = &item
				continue
			}
		}
	})
}
