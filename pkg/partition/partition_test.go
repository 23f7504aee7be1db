package partition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/partition"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

func TestPartition_RoutesByPredicate(t *testing.T) {
	in := streams.FromSlice([]fluxion.Item[int]{
		fluxion.Val(1), fluxion.Val(2), fluxion.Val(3), fluxion.Val(4), fluxion.Val(5),
	})

	rt := runtime.NewDefault()
	pass, fail := partition.Partition(context.Background(), rt, func(v int) bool { return v%2 == 0 }, in)

	ctx := context.Background()
	passItems, err := pass.Exhaust(ctx)
	require.NoError(t, err)
	failItems, err := fail.Exhaust(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 4}, valuesOf(t, passItems))
	assert.Equal(t, []int{1, 3, 5}, valuesOf(t, failItems))
}

func TestPartition_ErrorGoesToBothSides(t *testing.T) {
	in := streams.FromSlice([]fluxion.Item[int]{
		fluxion.Val(2),
		fluxion.Err[int](fluxion.StreamError("boom")),
	})

	rt := runtime.NewDefault()
	pass, fail := partition.Partition(context.Background(), rt, func(v int) bool { return true }, in)

	ctx := context.Background()
	passItems, err := pass.Exhaust(ctx)
	require.NoError(t, err)
	failItems, err := fail.Exhaust(ctx)
	require.NoError(t, err)

	require.Len(t, passItems, 2)
	assert.True(t, passItems[1].IsError())
	require.Len(t, failItems, 1)
	assert.True(t, failItems[0].IsError())
}

func valuesOf(t *testing.T, items []fluxion.Item[int]) []int {
	t.Helper()
	var out []int
	for _, it := range items {
		v, ok := it.Value()
		require.True(t, ok)
		out = append(out, v)
	}
	return out
}
