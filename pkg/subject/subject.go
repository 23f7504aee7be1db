// Package subject provides a hot, multicast broadcast primitive: every
// subscriber sees every item sent after it subscribed, in send order, and
// a slow or gone subscriber never blocks or fails delivery to the others.
package subject

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/streams"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind is reaped rather than allowed to block Send.
const subscriberBuffer = 64

// ErrClosed is returned by Subscribe and Send once the subject has been
// closed. Closing is monotonic: a closed subject never reopens.
var ErrClosed = errors.New("subject: closed")

// Subject is a hot multicast broadcaster of Item[T] values.
//
// The zero value is not useful; construct one with New.
type Subject[T any] struct {
	mu     sync.Mutex
	closed bool
	subs   map[uuid.UUID]chan fluxion.Item[T]
}

// New constructs an open Subject with no subscribers.
func New[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[uuid.UUID]chan fluxion.Item[T])}
}

// Subscribe registers a new subscriber and returns a Stream that yields
// every item sent to this subject from this point on. It fails with
// ErrClosed if the subject is already closed.
func (s *Subject[T]) Subscribe() (streams.Stream[fluxion.Item[T]], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		var zero streams.Stream[fluxion.Item[T]]
		return zero, ErrClosed
	}

	id := uuid.New()
	ch := make(chan fluxion.Item[T], subscriberBuffer)
	s.subs[id] = ch

	return streams.FromChannel[fluxion.Item[T]](ch), nil
}

// Send delivers item to every current subscriber, in the order Send is
// called, preserving relative order across subscribers. A subscriber whose
// buffer is full or that was never keeping up is lazily reaped: the
// delivery to it is dropped and it is removed from the subscriber set, but
// Send itself never fails because one subscriber couldn't keep up. Send
// fails with ErrClosed only if the subject itself is closed.
func (s *Subject[T]) Send(item fluxion.Item[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	for id, ch := range s.subs {
		select {
		case ch <- item:
		default:
			delete(s.subs, id)
			close(ch)
			logrus.WithField("subscriber", id).Debug("subject: reaped slow subscriber")
		}
	}
	return nil
}

// Error sends e as a single error item to every subscriber and then closes
// the subject — the one place in this package that mixes a send with a
// close, since an error on the source side always terminates the subject.
func (s *Subject[T]) Error(e fluxion.FluxionError) error {
	if err := s.Send(fluxion.Err[T](e)); err != nil {
		return err
	}
	s.Close()
	return nil
}

// Close idempotently closes the subject: every subscriber channel is
// closed (ending their streams cleanly) and the subscriber set is cleared.
// Calling Close more than once has no additional effect.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// IsClosed reports whether Close has been called.
func (s *Subject[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SubscriberCount returns the number of live subscribers. It is a point-in-
// time snapshot: a concurrent Subscribe or reap can change it immediately
// after it returns.
func (s *Subject[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
