package shared_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/shared"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

func TestShare_BroadcastsSourceToMultipleSubscribers(t *testing.T) {
	ch := make(chan fluxion.Item[int])
	source := streams.FromChannel(ch)

	rt := runtime.NewDefault()
	handle := shared.Share(context.Background(), rt, source)
	defer handle.Close()

	streamA, err := handle.Subscribe()
	require.NoError(t, err)
	streamB, err := handle.Subscribe()
	require.NoError(t, err)

	go func() {
		ch <- fluxion.Val(1)
		ch <- fluxion.Val(2)
		close(ch)
	}()

	ctx := context.Background()
	itemsA, err := streamA.Exhaust(ctx)
	require.NoError(t, err)
	itemsB, err := streamB.Exhaust(ctx)
	require.NoError(t, err)

	assert.Len(t, itemsA, 2)
	assert.Len(t, itemsB, 2)
}

func TestShare_ErrorItemForwardedThenCloses(t *testing.T) {
	ch := make(chan fluxion.Item[int], 2)
	source := streams.FromChannel(ch)

	rt := runtime.NewDefault()
	handle := shared.Share(context.Background(), rt, source)
	defer handle.Close()

	stream, err := handle.Subscribe()
	require.NoError(t, err)

	ch <- fluxion.Val(1)
	ch <- fluxion.Err[int](fluxion.StreamError("boom"))
	close(ch)

	items, err := stream.Exhaust(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[1].IsError())

	assert.Eventually(t, func() bool {
		_, err := handle.Subscribe()
		return err != nil
	}, time.Second, time.Millisecond)
}
