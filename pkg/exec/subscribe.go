// Package exec provides the module's terminal stream consumers: Subscribe,
// which runs a handler for every item in order, and SubscribeLatest, which
// coalesces items that arrive faster than the handler can process them.
package exec

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// Subscribe runs onNext, in order, for every item pulled from in, on a
// background task spawned through rt.Spawn. No coalescing happens: a
// handler invocation for item N+1 never starts before item N's has
// returned. If onNext returns an error, onErr is called with it; if onErr
// is nil, the error is logged instead.
//
// The returned CancelFunc stops pulling from in and ends the background
// task; it does not wait for an in-flight handler call to return.
func Subscribe[T any](ctx context.Context, rt runtime.Runtime, in streams.Stream[T], onNext func(context.Context, T) error, onErr func(error)) runtime.CancelFunc {
	taskCtx, token, cancel := rt.NewToken(ctx)

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
			if err := onNext(taskCtx, item); err != nil {
				reportHandlerError(onErr, "exec: subscribe handler failed", err)
			}
		}
	})

	return cancel
}

func reportHandlerError(onErr func(error), msg string, err error) {
	if onErr != nil {
		onErr(err)
		return
	}
	logrus.WithError(err).Error(msg)
}
