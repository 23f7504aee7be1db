package timeops

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// SampleRatio deterministically keeps roughly fraction of the values from
// in (0 <= fraction <= 1), independent of wall-clock time: each value's
// sequence number is combined with seed and hashed (FNV-1a, stdlib, chosen
// over hash/maphash because maphash's Seed can only be produced by
// MakeSeed, which is randomized per-process and so can't give the
// cross-run reproducibility a seed parameter implies), and the value is
// kept when the hash falls within the first fraction of the hash space.
// Running the same seed over the same input always keeps the same items.
// An error item always passes through and does not consume a sequence
// number.
func SampleRatio[T any](seed uint64, fraction float64, in streams.Stream[fluxion.Item[T]]) streams.Stream[fluxion.Item[T]] {
	var seq uint64

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

			seq++
			if keep(seed, seq, fraction) {
				return item, true, nil
			}
		}
	})
}

func keep(seed, seq uint64, fraction float64) bool {
	if fraction >= 1 {
		return true
	}
	if fraction <= 0 {
		return false
	}

	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], seed)
	binary.BigEndian.PutUint64(buf[8:], seq)

	h := fnv.New64a()
	_, _ = h.Write(buf[:])

	ratio := float64(h.Sum64()) / float64(math.MaxUint64)
	return ratio < fraction
}
