package timeops_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams/timeops"
)

func TestSample_EmitsLatestOnEachTick(t *testing.T) {
	rt := runtime.NewDefault()
	src := spacedSource([]int{1, 2, 3}, 15*time.Millisecond)

	ctx := context.Background()
	out := timeops.Sample(ctx, 25*time.Millisecond, rt.Timer(), src)

	items, err := out.Exhaust(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, valuesOfStamped(t, items))
	for _, v := range valuesOfStamped(t, items) {
		assert.Contains(t, []int{1, 2, 3}, v)
	}
}

func TestSample_DoesNotFlushPendingOnEnd(t *testing.T) {
	rt := runtime.NewDefault()
	// d is long enough that the tick never fires before the short source
	// ends, so the pending value must be dropped, not flushed.
	src := spacedSource([]int{1}, 0)

	ctx := context.Background()
	out := timeops.Sample(ctx, time.Hour, rt.Timer(), src)

	items, err := out.Exhaust(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
