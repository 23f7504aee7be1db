package timeops

import (
	"context"
	"time"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// Debounce emits a value from in only once d has passed without a newer
// value arriving (trailing debounce): every new value restarts the quiet
// timer, discarding whatever was pending. An error item clears any pending
// value and passes through immediately, bypassing the timer entirely. When
// in ends with a value still pending, that value is flushed before the
// debounced stream ends. d <= 0 passes every value through unchanged,
// latest-wins with no actual delay.
func Debounce[V fluxion.Timestamped](ctx context.Context, d time.Duration, tm runtime.Timer, in streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[V]] {
	p := newPuller(in)

	var pending *fluxion.Item[V]
	var timerCh <-chan time.Time
	sourceEnded := false
	ended := false

	return streams.New(func(pctx context.Context) (fluxion.Item[V], bool, error) {
		var zero fluxion.Item[V]
		if ended {
			return zero, false, nil
		}

		for {
			var resultsCh chan srcResult[V]
			if !sourceEnded {
				p.ensure(pctx)
				resultsCh = p.results
			}

			select {
			case <-pctx.Done():
				ended = true
				return zero, false, pctx.Err()
			case <-ctx.Done():
				ended = true
				return zero, false, ctx.Err()

			case <-timerCh:
				timerCh = nil
				if pending != nil {
					out := *pending
					pending = nil
					if sourceEnded {
						ended = true
					}
					return out, true, nil
				}
				if sourceEnded {
					ended = true
					return zero, false, nil
				}
				continue

			case res := <-resultsCh:
				p.inFlight = false

				if res.err != nil {
					ended = true
					return zero, false, res.err
				}
				if !res.ok {
					sourceEnded = true
					if pending != nil {
						out := *pending
						pending = nil
						ended = true
						return out, true, nil
					}
					ended = true
					return zero, false, nil
				}
				if res.item.IsError() {
					pending = nil
					timerCh = nil
					return res.item, true, nil
				}

				item := res.item
				if d <= 0 {
					return item, true, nil
				}
				pending = &item
				timerCh = tm.Sleep(d)
				continue
			}
		}
	})
}
