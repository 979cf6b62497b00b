package mpsc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrDisconnected is returned by [Sender.Send] when the receiver has
	// been closed. The value was not enqueued.
	ErrDisconnected = errors.New("mpsc: receiver disconnected")

	// ErrClosed is returned by the receive methods once every sender has
	// been closed and the queue is empty. It is permanent.
	ErrClosed = errors.New("mpsc: all senders closed")

	// ErrEmpty is returned by [Receiver.TryRecv] when nothing is queued
	// but at least one sender is still open.
	ErrEmpty = errors.New("mpsc: channel empty")

	// ErrTimeout is returned by [Receiver.RecvTimeout] when no value
	// arrived within the timeout.
	ErrTimeout = errors.New("mpsc: receive timed out")

	// ErrHandleClosed is returned when a Sender or Receiver is used after
	// its own Close.
	ErrHandleClosed = errors.New("mpsc: use of closed handle")
)

// compactAt is the number of consumed slots after which the backing
// slice is shifted down instead of growing further.
const compactAt = 1024

// queue is the state shared by every handle of one channel.
type queue[T any] struct {
	mu      sync.Mutex
	buf     []T
	head    int // index of the next value to pop
	senders int // live Sender handles
	rxGone  bool

	// notify holds at most one pending wakeup for the receiver.
	notify chan struct{}
}

// New creates an unbounded channel and returns its first [Sender] and its
// only [Receiver]. Further senders are made with [Sender.Clone].
func New[T any]() (*Sender[T], *Receiver[T]) {
	q := &queue[T]{
		senders: 1,
		notify:  make(chan struct{}, 1),
	}
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

func (q *queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *queue[T]) push(v T) error {
	q.mu.Lock()
	if q.rxGone {
		q.mu.Unlock()
		return ErrDisconnected
	}
	q.buf = append(q.buf, v)
	q.mu.Unlock()

	q.wake()
	return nil
}

// pop removes the oldest value. It reports ErrEmpty while senders remain
// and ErrClosed once they are all gone.
func (q *queue[T]) pop() (T, error) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.buf) {
		if q.senders == 0 {
			return zero, ErrClosed
		}
		return zero, ErrEmpty
	}

	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.buf):
		q.buf = q.buf[:0]
		q.head = 0
	case q.head >= compactAt && q.head*2 >= len(q.buf):
		n := copy(q.buf, q.buf[q.head:])
		clear(q.buf[n:])
		q.buf = q.buf[:n]
		q.head = 0
	}

	return v, nil
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf) - q.head
}

// Sender is one owning send handle of a channel. A Sender must not be
// used concurrently with its own Close; give every goroutine its own
// handle via [Sender.Clone].
type Sender[T any] struct {
	q      *queue[T]
	closed atomic.Bool
}

// Send enqueues v. It never blocks.
//
// Send returns [ErrDisconnected] if the receiver has been closed and
// [ErrHandleClosed] if this handle has been closed.
func (s *Sender[T]) Send(v T) error {
	if s.closed.Load() {
		return ErrHandleClosed
	}
	return s.q.push(v)
}

// Clone returns a new Sender for the same channel. The clone must be
// closed independently. Clone panics if s has already been closed.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed.Load() {
		panic("mpsc: Clone on closed Sender")
	}

	s.q.mu.Lock()
	s.q.senders++
	s.q.mu.Unlock()

	return &Sender[T]{q: s.q}
}

// Close drops this handle. When the last Sender is closed, a receiver
// blocked in Recv observes [ErrClosed] after draining the queue.
//
// Close is idempotent.
func (s *Sender[T]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.q.mu.Lock()
	s.q.senders--
	last := s.q.senders == 0
	s.q.mu.Unlock()

	if last {
		s.q.wake()
	}
}

// Receiver is the single receive handle of a channel. Its methods must
// be called from one goroutine at a time.
type Receiver[T any] struct {
	q      *queue[T]
	closed atomic.Bool
}

// Recv blocks until a value is available and returns it. Values already
// queued are returned before [ErrClosed] is reported.
func (r *Receiver[T]) Recv() (T, error) {
	return r.recv(context.Background(), nil)
}

// RecvContext is like [Receiver.Recv] but gives up with ctx.Err() when
// ctx is cancelled.
func (r *Receiver[T]) RecvContext(ctx context.Context) (T, error) {
	return r.recv(ctx, nil)
}

// RecvTimeout is like [Receiver.Recv] but gives up with [ErrTimeout]
// after d.
func (r *Receiver[T]) RecvTimeout(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	return r.recv(context.Background(), timer.C)
}

// TryRecv returns the next value without blocking. It returns [ErrEmpty]
// when nothing is queued and [ErrClosed] on end-of-stream.
func (r *Receiver[T]) TryRecv() (T, error) {
	if r.closed.Load() {
		var zero T
		return zero, ErrHandleClosed
	}
	return r.q.pop()
}

func (r *Receiver[T]) recv(ctx context.Context, timeout <-chan time.Time) (T, error) {
	var zero T
	if r.closed.Load() {
		return zero, ErrHandleClosed
	}

	for {
		v, err := r.q.pop()
		if !errors.Is(err, ErrEmpty) {
			return v, err
		}

		select {
		case <-r.q.notify:
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-timeout:
			return zero, ErrTimeout
		}
	}
}

// Chan returns a channel that yields received values until end-of-stream
// or until ctx is cancelled, then is closed. While it is in use the
// Receiver must not be read from directly. A value received just as ctx
// is cancelled is dropped.
func (r *Receiver[T]) Chan(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			v, err := r.RecvContext(ctx)
			if err != nil {
				return
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of queued values. It may be stale by the time
// it is read.
func (r *Receiver[T]) Len() int {
	return r.q.len()
}

// Senders returns the number of open Sender handles.
func (r *Receiver[T]) Senders() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return r.q.senders
}

// Close drops the receive end. Queued values are discarded and later
// sends fail with [ErrDisconnected]. Close is idempotent.
func (r *Receiver[T]) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}

	r.q.mu.Lock()
	r.q.rxGone = true
	clear(r.q.buf)
	r.q.buf = nil
	r.q.head = 0
	r.q.mu.Unlock()
}
