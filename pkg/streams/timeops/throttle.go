package timeops

import (
	"context"
	"time"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// Throttle emits the first value from in, then drops every subsequent
// value until d has elapsed (leading throttle, half-open window [t, t+d)):
// a value arriving exactly at t+d is let through and starts a fresh window.
// An error item always passes through immediately, regardless of the
// throttling window.
func Throttle[V fluxion.Timestamped](ctx context.Context, d time.Duration, tm runtime.Timer, in streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[V]] {
	p := newPuller(in)

	var timerCh <-chan time.Time
	throttling := false
	ended := false

	return streams.New(func(pctx context.Context) (fluxion.Item[V], bool, error) {
		var zero fluxion.Item[V]
		if ended {
			return zero, false, nil
		}

		for {
			p.ensure(pctx)

			// Poll the timer first, non-blocking: clear throttling if the
			// window has already expired before we look at the source.
			select {
			case <-timerCh:
				throttling = false
				timerCh = nil
			default:
			}

			select {
			case <-pctx.Done():
				ended = true
				return zero, false, pctx.Err()
			case <-ctx.Done():
				ended = true
				return zero, false, ctx.Err()

			case <-timerCh:
				throttling = false
				timerCh = nil
				continue

			case res := <-p.results:
				p.inFlight = false

				if res.err != nil {
					ended = true
					return zero, false, res.err
				}
				if !res.ok {
					ended = true
					return zero, false, nil
				}
				if res.item.IsError() {
					return res.item, true, nil
				}
				if throttling {
					continue
				}

				throttling = true
				if d > 0 {
					timerCh = tm.Sleep(d)
				}
				return res.item, true, nil
			}
		}
	})
}
