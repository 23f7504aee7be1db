package combine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
	"github.com/shivanshkc/fluxion/pkg/streams/combine"
)

type counters struct {
	clicks int
	names  []string
}

func TestBuilder_FoldsHeterogeneousInputs(t *testing.T) {
	clicks := streams.FromSlice([]fluxion.Item[int]{fluxion.Val(1), fluxion.Val(1)})
	names := streams.FromSlice([]fluxion.Item[string]{fluxion.Val("a")})

	b := combine.NewBuilder(counters{})
	combine.Add(b, clicks, func(s *counters, v int) fluxion.Stamped[int] {
		s.clicks += v
		return fluxion.WithFreshTimestamp(s.clicks)
	})
	combine.Add(b, names, func(s *counters, v string) fluxion.Stamped[string] {
		s.names = append(s.names, v)
		return fluxion.WithFreshTimestamp(v)
	})

	out := b.Build(context.Background())
	items, err := out.Exhaust(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestBuilder_NoInputsEndsImmediately(t *testing.T) {
	b := combine.NewBuilder(counters{})
	out := b.Build(context.Background())

	items, err := out.Exhaust(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuilder_OrdersByTriggeringTimestampAndPreservesIt(t *testing.T) {
	clicks := streams.FromSlice([]fluxion.Item[int]{fluxion.Val(1)})
	names := streams.FromSlice([]fluxion.Item[string]{fluxion.Val("a")})

	b := combine.NewBuilder(counters{})
	combine.Add(b, clicks, func(s *counters, v int) fluxion.Stamped[int] {
		s.clicks += v
		return fluxion.WithTimestamp(s.clicks, fluxion.SeqTimestamp(10))
	})
	combine.Add(b, names, func(s *counters, v string) fluxion.Stamped[string] {
		s.names = append(s.names, v)
		return fluxion.WithTimestamp(v, fluxion.SeqTimestamp(5))
	})

	out := b.Build(context.Background())
	items, err := out.Exhaust(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// The "names" input's projection carries the earlier timestamp (5 < 10),
	// so it must come first despite "clicks" being added to the Builder
	// first and having the earlier-arriving raw input.
	first, ok := items[0].Value()
	require.True(t, ok)
	assert.Equal(t, "a", first.Inner())
	assert.Equal(t, 0, first.Ts().Compare(fluxion.SeqTimestamp(5)))

	second, ok := items[1].Value()
	require.True(t, ok)
	assert.Equal(t, 1, second.Inner())
	assert.Equal(t, 0, second.Ts().Compare(fluxion.SeqTimestamp(10)))
}
