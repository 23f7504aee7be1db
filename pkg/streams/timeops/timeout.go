package timeops

import (
	"context"
	"time"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// Timeout resets a d-long timer every time a value passes through. If the
// timer fires before the next value (or end) arrives, Timeout synthesizes a
// FluxionError of kind timeout carrying context and terminates the stream —
// the only time-based operator that manufactures an error rather than just
// forwarding or dropping one. A clean end of in ends Timeout with no error.
func Timeout[V fluxion.Timestamped](ctx context.Context, d time.Duration, context string, tm runtime.Timer, in streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[V]] {
	p := newPuller(in)
	ended := false

	return streams.New(func(pctx context.Context) (fluxion.Item[V], bool, error) {
		var zero fluxion.Item[V]
		if ended {
			return zero, false, nil
		}

		p.ensure(pctx)

		var timerCh <-chan time.Time
		if d > 0 {
			timerCh = tm.Sleep(d)
		}

		select {
		case <-pctx.Done():
			ended = true
			return zero, false, pctx.Err()
		case <-ctx.Done():
			ended = true
			return zero, false, ctx.Err()

		case <-timerCh:
			ended = true
			return fluxion.Err[V](fluxion.TimeoutError(context)), true, nil

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
			return res.item, true, nil
		}
	})
}
