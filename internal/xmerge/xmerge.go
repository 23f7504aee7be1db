// Package xmerge holds the module's one indexed, ordered, fail-fast k-way
// merge primitive. It is internal because the indexed variant — which
// tells a caller which source produced each item — is a combinator
// building block, not something library users should depend on directly;
// streams/merge.OrderedMerge and streams/combine build their public
// surfaces on top of it.
package xmerge

import (
	"context"
	"sync"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// Indexed pairs a merged item with the index of the source stream it came
// from.
type Indexed[V any] struct {
	Index int
	Item  fluxion.Item[V]
}

// fetchResult is what a per-source puller goroutine reports back to the
// merge loop.
type fetchResult[V any] struct {
	index int
	item  fluxion.Item[V]
	ok    bool
	err   error
}

// Merge performs the module's one indexed, ordered, fail-fast k-way merge
// over sources, every one of which must yield values in non-decreasing
// Timestamp order.
//
// Merge buffers at most one pending item per source and only picks the next
// item to emit once every still-active source has a buffered item — so a
// source that is slow to produce still gets the chance to preempt an
// already-buffered, later-timestamped value from a faster source. Among
// buffered values, the smallest Timestamp wins; ties are broken by source
// index (the lowest-index slot wins). An error item is always treated as
// "less than" any value — it is emitted the moment it is observed, without
// waiting for the other slots to fill, since ordering a value that is about
// to terminate everything downstream serves no purpose.
//
// The merged stream ends (ok=false) once every source has ended; it ends
// with a non-nil error if ctx is canceled while Merge is waiting on sources.
func Merge[V fluxion.Timestamped](ctx context.Context, sources []streams.Stream[fluxion.Item[V]]) streams.Stream[Indexed[V]] {
	n := len(sources)

	buffered := make([]*fluxion.Item[V], n)
	done := make([]bool, n)
	inFlight := make([]bool, n)

	results := make(chan fetchResult[V], n)

	var mu sync.Mutex
	ended := false

	launch := func(pollCtx context.Context, i int) {
		mu.Lock()
		if done[i] || inFlight[i] || buffered[i] != nil {
			mu.Unlock()
			return
		}
		inFlight[i] = true
		mu.Unlock()

		go func() {
			item, ok, err := sources[i].NextContext(pollCtx)
			results <- fetchResult[V]{index: i, item: item, ok: ok, err: err}
		}()
	}

	return streams.New(func(pollCtx context.Context) (Indexed[V], bool, error) {
		var zero Indexed[V]
		if ended {
			return zero, false, nil
		}

		for {
			allDone := true
			needMore := false
			for i := 0; i < n; i++ {
				mu.Lock()
				d, b := done[i], buffered[i] != nil
				mu.Unlock()
				if d {
					continue
				}
				allDone = false
				if !b {
					needMore = true
					launch(pollCtx, i)
				}
			}

			if allDone {
				ended = true
				return zero, false, nil
			}

			if needMore {
				select {
				case <-pollCtx.Done():
					ended = true
					return zero, false, pollCtx.Err()
				case <-ctx.Done():
					ended = true
					return zero, false, ctx.Err()
				case res := <-results:
					mu.Lock()
					inFlight[res.index] = false
					mu.Unlock()

					if res.err != nil {
						ended = true
						return zero, false, res.err
					}
					if !res.ok {
						mu.Lock()
						done[res.index] = true
						mu.Unlock()
						continue
					}
					if res.item.IsError() {
						// Errors sort below every value: emit immediately,
						// no need to wait for the other slots to fill.
						ended = true
						return Indexed[V]{Index: res.index, Item: res.item}, true, nil
					}

					item := res.item
					mu.Lock()
					buffered[res.index] = &item
					mu.Unlock()
					continue
				}
			}

			minIdx := -1
			for i := 0; i < n; i++ {
				mu.Lock()
				d, b := done[i], buffered[i]
				mu.Unlock()
				if d || b == nil {
					continue
				}
				if minIdx == -1 {
					minIdx = i
					continue
				}
				mu.Lock()
				curVal, _ := buffered[i].Value()
				minVal, _ := buffered[minIdx].Value()
				mu.Unlock()
				if curVal.Ts().Compare(minVal.Ts()) < 0 {
					minIdx = i
				}
			}

			mu.Lock()
			out := *buffered[minIdx]
			buffered[minIdx] = nil
			mu.Unlock()

			return Indexed[V]{Index: minIdx, Item: out}, true, nil
		}
	})
}
