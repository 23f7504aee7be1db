// Package partition splits one stream into two, routed by a predicate.
package partition

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/streams"
	"github.com/shivanshkc/fluxion/pkg/subject"
)

// guard is the shared task lifetime tracker for a partition's routing
// task: it is kept alive while either output side still holds a reference,
// and cancels the routing task's context exactly once, no matter how many
// times release is called.
type guard struct {
	refs   int32
	cancel runtime.CancelFunc
	once   sync.Once
}

func newGuard(cancel runtime.CancelFunc) *guard {
	return &guard{refs: 2, cancel: cancel}
}

// release drops one reference; the last release cancels the routing task.
func (g *guard) release() {
	if atomic.AddInt32(&g.refs, -1) <= 0 {
		g.once.Do(g.cancel)
	}
}

// Partition routes items from source into pass (predicate(v) is true) or
// fail (predicate(v) is false), via a single background routing task
// spawned through rt.Spawn. An error item from source is broadcast to both
// outputs and ends both; errors always pass the predicate check undisturbed
// — predicate is only ever consulted for value items.
func Partition[T any](ctx context.Context, rt runtime.Runtime, predicate func(T) bool, source streams.Stream[fluxion.Item[T]]) (pass, fail streams.Stream[fluxion.Item[T]]) {
	passSubj := subject.New[T]()
	failSubj := subject.New[T]()

	taskCtx, _, cancelToken := rt.NewToken(ctx)
	g := newGuard(cancelToken)

	passStream, _ := passSubj.Subscribe()
	failStream, _ := failSubj.Subscribe()

	rt.Spawn(func(_ context.Context) error {
		for {
			item, ok, err := source.NextContext(taskCtx)
			if err != nil {
				passSubj.Close()
				failSubj.Close()
				return err
			}
			if !ok {
				passSubj.Close()
				failSubj.Close()
				return nil
			}
			if item.IsError() {
				_ = passSubj.Send(item)
				_ = failSubj.Send(item)
				passSubj.Close()
				failSubj.Close()
				return nil
			}

			v, _ := item.Value()
			if predicate(v) {
				_ = passSubj.Send(item)
			} else {
				_ = failSubj.Send(item)
			}
		}
	})

	pass = streams.New(func(ctx context.Context) (fluxion.Item[T], bool, error) {
		item, ok, err := passStream.NextContext(ctx)
		if !ok {
			g.release()
		}
		return item, ok, err
	})
	fail = streams.New(func(ctx context.Context) (fluxion.Item[T], bool, error) {
		item, ok, err := failStream.NextContext(ctx)
		if !ok {
			g.release()
		}
		return item, ok, err
	})

	return pass, fail
}
