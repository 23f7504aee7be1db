// Package merge provides the library's public, ordered, fail-fast k-way
// merge operator.
package merge

import (
	"context"

	"github.com/shivanshkc/fluxion/internal/xmerge"
	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// OrderedMerge interleaves ins into a single stream ordered by Timestamp —
// the public, non-indexed face of the module's merge engine.
//
// Every input must yield values in non-decreasing Timestamp order; the
// merged stream preserves that order across all inputs, breaking ties by
// stream index — the earlier argument to ins wins. An error item from any input
// is forwarded the moment it is observed and ends the merged stream —
// merging is fail-fast, not best-effort. ctx cancellation ends the merged
// stream with a non-nil error.
func OrderedMerge[V fluxion.Timestamped](ctx context.Context, ins ...streams.Stream[fluxion.Item[V]]) streams.Stream[fluxion.Item[V]] {
	indexed := xmerge.Merge(ctx, ins)
	return streams.Map(indexed, func(i xmerge.Indexed[V]) fluxion.Item[V] {
		return i.Item
	})
}
