// Package shared turns a cold Stream (one that re-runs its own logic for
// every subscriber) into a hot one: a single background task pulls from the
// source and fans each item out to every current subscriber through a
// subject.Subject.
package shared

import (
	"context"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams"
	"github.com/shivanshkc/fluxion/pkg/subject"
)

// Handle is the live handle to a shared stream: new subscribers join the
// ongoing broadcast and see every item sent from the moment they
// subscribed onward.
type Handle[T any] struct {
	subject *subject.Subject[T]
	cancel  runtime.CancelFunc
}

// Share starts a background task, via rt.Spawn, that pulls from source and
// forwards every item to an internal subject. The source is pulled exactly
// once regardless of how many subscribers join; subscribing never restarts
// it.
//
// On an error item from source, Share forwards it to every subscriber and
// then closes; on a clean end of source, or on ctx cancellation, it simply
// closes.
func Share[T any](ctx context.Context, rt runtime.Runtime, source streams.Stream[fluxion.Item[T]]) *Handle[T] {
	subj := subject.New[T]()
	taskCtx, _, cancelToken := rt.NewToken(ctx)

	rt.Spawn(func(_ context.Context) error {
		for {
			item, ok, err := source.NextContext(taskCtx)
			if err != nil {
				subj.Close()
				return err
			}
			if !ok {
				subj.Close()
				return nil
			}
			if item.IsError() {
				_ = subj.Send(item)
				subj.Close()
				return nil
			}
			if sendErr := subj.Send(item); sendErr != nil {
				return sendErr
			}
		}
	})

	return &Handle[T]{subject: subj, cancel: cancelToken}
}

// Subscribe joins the broadcast. It fails with subject.ErrClosed if the
// shared stream has already ended.
func (h *Handle[T]) Subscribe() (streams.Stream[fluxion.Item[T]], error) {
	return h.subject.Subscribe()
}

// Close stops the background forwarding task and closes the subject,
// ending every current subscriber's stream.
func (h *Handle[T]) Close() {
	h.cancel()
	h.subject.Close()
}
