package timeops

import (
	"context"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// WindowByCount groups values from in into fixed-size slices of n, emitting
// a window as soon as it fills. If in ends with fewer than n values
// buffered, the partial window is flushed before WindowByCount ends. An
// error item discards whatever was buffered and is forwarded immediately,
// but does not end the stream — in keeps being pulled afterward, and
// windowing resumes from an empty buffer.
func WindowByCount[V fluxion.Timestamped](n int, in streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[[]V]] {
	var buf []V
	ended := false

	return streams.New(func(ctx context.Context) (fluxion.Item[[]V], bool, error) {
		var zero fluxion.Item[[]V]
		if ended {
			return zero, false, nil
		}

		for {
			item, ok, err := in.NextContext(ctx)
			if err != nil {
				ended = true
				return zero, false, err
			}
			if !ok {
				ended = true
				if len(buf) == 0 {
					return zero, false, nil
				}
				out := buf
				buf = nil
				return fluxion.Val(out), true, nil
			}
			if item.IsError() {
				fe, _ := item.Error()
				buf = nil
				return fluxion.Err[[]V](fe), true, nil
			}

			v, _ := item.Value()
			buf = append(buf, v)
			if len(buf) == n {
				out := buf
				buf = nil
				return fluxion.Val(out), true, nil
			}
		}
	})
}
