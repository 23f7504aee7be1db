package timeops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
	"github.com/shivanshkc/fluxion/pkg/streams/timeops"
)

func TestWindowByCount_EmitsFullWindowsThenFlushesPartial(t *testing.T) {
	src := streams.FromSlice([]fluxion.Item[stampedInt]{
		sv(1, 1), sv(2, 2), sv(3, 3), sv(4, 4), sv(5, 5),
	})

	ctx := context.Background()
	out := timeops.WindowByCount[stampedInt](2, src)

	items, err := out.Exhaust(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	var windows [][]int
	for _, it := range items {
		v, ok := it.Value()
		require.True(t, ok)
		var w []int
		for _, s := range v {
			w = append(w, s.Inner())
		}
		windows = append(windows, w)
	}
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, windows)
}

func TestWindowByCount_ErrorDiscardsBufferAndForwards(t *testing.T) {
	fe := fluxion.StreamError("boom")
	src := streams.FromSlice([]fluxion.Item[stampedInt]{
		sv(1, 1), fluxion.Err[stampedInt](fe),
	})

	ctx := context.Background()
	out := timeops.WindowByCount[stampedInt](5, src)

	items, err := out.Exhaust(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsError())
}

func TestWindowByCount_ContinuesAfterError(t *testing.T) {
	fe := fluxion.StreamError("boom")
	src := streams.FromSlice([]fluxion.Item[stampedInt]{
		sv(1, 1), fluxion.Err[stampedInt](fe), sv(2, 2), sv(3, 3), sv(4, 4),
	})

	ctx := context.Background()
	out := timeops.WindowByCount[stampedInt](2, src)

	items, err := out.Exhaust(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.True(t, items[0].IsError())

	var windows [][]int
	for _, it := range items[1:] {
		v, ok := it.Value()
		require.True(t, ok)
		var w []int
		for _, s := range v {
			w = append(w, s.Inner())
		}
		windows = append(windows, w)
	}
	assert.Equal(t, [][]int{{2, 3}, {4}}, windows)
}
