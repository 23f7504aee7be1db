package exec

import (
	"context"
	"sync"

	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// latestState is the coalescing mailbox SubscribeLatest uses: at most one
// pending item waits behind whatever is currently processing. An item that
// arrives while processing is already under way overwrites whatever was
// pending, so the handler never falls behind by more than one item.
type latestState[T any] struct {
	mu         sync.Mutex
	pending    *T
	processing bool
}

// SubscribeLatest runs onNext for items pulled from in, but coalesces: if
// onNext is still running when newer items arrive, only the most recent
// one is kept, and it is handed to onNext as soon as the current call
// returns. A burst of N items while the handler is busy therefore yields at
// most one additional onNext call, not N.
//
// If onNext returns an error, onErr is called with it; if onErr is nil, the
// error is logged instead. The returned CancelFunc stops pulling from in;
// it does not wait for an in-flight handler call to return.
func SubscribeLatest[T any](ctx context.Context, rt runtime.Runtime, in streams.Stream[T], onNext func(context.Context, T) error, onErr func(error)) runtime.CancelFunc {
	taskCtx, token, cancel := rt.NewToken(ctx)
	st := &latestState[T]{}

	startWorker := func() {
		rt.Spawn(func(_ context.Context) error {
			for {
				if token.IsCancelled() {
					return taskCtx.Err()
				}

				st.mu.Lock()
				item := st.pending
				st.pending = nil
				if item == nil {
					st.processing = false
					st.mu.Unlock()
					return nil
				}
				st.mu.Unlock()

				if err := onNext(taskCtx, *item); err != nil {
					reportHandlerError(onErr, "exec: subscribe-latest handler failed", err)
				}
			}
		})
	}

	rt.Spawn(func(_ context.Context) error {
		for {
			if token.IsCancelled() {
				return taskCtx.Err()
			}
			item, ok, err := in.NextContext(taskCtx)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			st.mu.Lock()
			st.pending = &item
			shouldStart := !st.processing
			if shouldStart {
				st.processing = true
			}
			st.mu.Unlock()

			if shouldStart {
				startWorker()
			}
		}
	})

	return cancel
}
