// Package runtime provides the capability surface every background-task
// operator in this module (subject sharing, partitioning, terminal
// consumers) depends on instead of calling goroutine/timer primitives
// directly: spawning supervised background work, deriving a cancellation
// token from a context, and scheduling a one-shot timer. Keeping these
// behind an interface lets tests substitute a lightweight fake without
// spinning up real goroutines or waiting on real wall-clock timers.
package runtime

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CancelFunc cancels whatever it was returned alongside. Calling it more
// than once is safe and has no additional effect.
type CancelFunc func()

// CancellationToken reports whether, and signals when, the scope it was
// derived from has been cancelled.
type CancellationToken interface {
	// IsCancelled reports whether cancellation has already happened.
	IsCancelled() bool
	// Cancelled returns a channel that is closed exactly once, when this
	// scope is cancelled.
	Cancelled() <-chan struct{}
}

// Timer schedules one-shot wake-ups. Every stateful time operator in
// pkg/streams/timeops goes through this interface rather than calling
// time.NewTimer directly, so a test can substitute a fake, accelerated
// implementation without changing operator code.
type Timer interface {
	// Sleep returns a channel that receives exactly one value after d has
	// elapsed, then never again.
	Sleep(d time.Duration) <-chan time.Time
}

// Runtime is the capability a background-task operator needs: the ability
// to spawn supervised goroutines, derive cancellation tokens, and obtain a
// Timer.
type Runtime interface {
	// Spawn runs f in a new goroutine, supervised by the runtime's internal
	// errgroup. The returned CancelFunc requests f's context be cancelled;
	// it does not block until f has actually returned.
	Spawn(f func(ctx context.Context) error) CancelFunc
	// NewToken derives a cancellable child context from ctx, along with a
	// CancellationToken view of the same cancellation and the CancelFunc
	// that triggers it.
	NewToken(ctx context.Context) (context.Context, CancellationToken, CancelFunc)
	// Timer returns the runtime's Timer capability.
	Timer() Timer
}

// defaultRuntime is the production Runtime: goroutines supervised by an
// errgroup.Group, contexts from the standard library, and real wall-clock
// timers.
type defaultRuntime struct {
	eg *errgroup.Group
}

// NewDefault returns the module's one production Runtime. It is safe for
// concurrent use from multiple goroutines.
func NewDefault() Runtime {
	eg := &errgroup.Group{}
	return &defaultRuntime{eg: eg}
}

// Spawn implements Runtime.
func (r *defaultRuntime) Spawn(f func(ctx context.Context) error) CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	r.eg.Go(func() error {
		if err := f(ctx); err != nil {
			logrus.WithError(err).Debug("runtime: spawned task exited with error")
			return err
		}
		return nil
	})
	return CancelFunc(cancel)
}

// NewToken implements Runtime.
func (r *defaultRuntime) NewToken(ctx context.Context) (context.Context, CancellationToken, CancelFunc) {
	childCtx, cancel := context.WithCancel(ctx)
	return childCtx, &ctxToken{ctx: childCtx}, CancelFunc(cancel)
}

// Timer implements Runtime.
func (r *defaultRuntime) Timer() Timer { return realTimer{} }

// ctxToken adapts a context.Context into a CancellationToken.
type ctxToken struct {
	ctx context.Context
}

func (t *ctxToken) IsCancelled() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

func (t *ctxToken) Cancelled() <-chan struct{} { return t.ctx.Done() }

// realTimer implements Timer with the standard library's time.Timer.
type realTimer struct{}

func (realTimer) Sleep(d time.Duration) <-chan time.Time {
	return time.NewTimer(d).C
}
