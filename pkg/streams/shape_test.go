package streams_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

func valItems(xs ...int) []fluxion.Item[int] {
	out := make([]fluxion.Item[int], len(xs))
	for i, x := range xs {
		out[i] = fluxion.Val(x)
	}
	return out
}

func collectValues(t *testing.T, s streams.Stream[fluxion.Item[int]]) []int {
	t.Helper()
	all, err := s.Exhaust(context.Background())
	require.NoError(t, err)
	var out []int
	for _, it := range all {
		v, ok := it.Value()
		require.True(t, ok)
		out = append(out, v)
	}
	return out
}

func TestStartWith(t *testing.T) {
	in := streams.FromSlice(valItems(3, 4))
	out := streams.StartWith(valItems(1, 2), in)
	assert.Equal(t, []int{1, 2, 3, 4}, collectValues(t, out))
}

func TestSkip(t *testing.T) {
	in := streams.FromSlice(valItems(1, 2, 3, 4, 5))
	out := streams.Skip(2, in)
	assert.Equal(t, []int{3, 4, 5}, collectValues(t, out))
}

func TestSkip_MoreThanAvailable(t *testing.T) {
	in := streams.FromSlice(valItems(1, 2))
	out := streams.Skip(5, in)
	assert.Empty(t, collectValues(t, out))
}

func TestSkip_ErrorsPassThroughWithoutCountingTowardsN(t *testing.T) {
	fe := fluxion.StreamError("boom")
	in := streams.FromSlice([]fluxion.Item[int]{
		fluxion.Err[int](fe),
		fluxion.Val(1),
		fluxion.Val(2),
		fluxion.Val(3),
	})
	out := streams.Skip(2, in)

	all, err := out.Exhaust(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.True(t, all[0].IsError())
	v, ok := all[1].Value()
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestTake(t *testing.T) {
	in := streams.FromSlice(valItems(1, 2, 3, 4, 5))
	out := streams.Take(3, in)
	assert.Equal(t, []int{1, 2, 3}, collectValues(t, out))
}

func TestTake_FewerThanAvailable(t *testing.T) {
	in := streams.FromSlice(valItems(1, 2))
	out := streams.Take(5, in)
	assert.Equal(t, []int{1, 2}, collectValues(t, out))
}

func TestTake_ErrorsPassThroughWithoutCountingTowardsN(t *testing.T) {
	fe := fluxion.StreamError("boom")
	in := streams.FromSlice([]fluxion.Item[int]{
		fluxion.Err[int](fe),
		fluxion.Val(1),
		fluxion.Val(2),
		fluxion.Val(3),
	})
	out := streams.Take(2, in)

	all, err := out.Exhaust(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.True(t, all[0].IsError())
	v1, ok1 := all[1].Value()
	require.True(t, ok1)
	assert.Equal(t, 1, v1)
	v2, ok2 := all[2].Value()
	require.True(t, ok2)
	assert.Equal(t, 2, v2)
}

func TestTap(t *testing.T) {
	var seen []int
	in := streams.FromSlice(valItems(1, 2, 3))
	out := streams.Tap(func(v int) { seen = append(seen, v) }, in)

	assert.Equal(t, []int{1, 2, 3}, collectValues(t, out))
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestOnError_SwallowsMatchingPredicate(t *testing.T) {
	in := streams.FromSlice([]fluxion.Item[int]{
		fluxion.Val(1),
		fluxion.Err[int](fluxion.StreamError("ignore me")),
		fluxion.Val(2),
		fluxion.Err[int](fluxion.TimeoutError("keep me")),
	})

	out := streams.OnError(func(fe fluxion.FluxionError) bool {
		return fe.Kind == fluxion.KindStreamProcessing
	}, in)

	all, err := out.Exhaust(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)

	v0, ok0 := all[0].Value()
	require.True(t, ok0)
	assert.Equal(t, 1, v0)

	v1, ok1 := all[1].Value()
	require.True(t, ok1)
	assert.Equal(t, 2, v1)

	assert.True(t, all[2].IsError())
}
