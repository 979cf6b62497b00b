package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Func is the signature of a task run inside a [Group]. The context is
// cancelled when the group finishes, when a task fails under [FailFast],
// or when a task panics.
type Func func(ctx context.Context) error

// state is shared by a Group and its Spawner.
type state struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	cfg    config

	wg sync.WaitGroup

	errMu sync.Mutex
	errs  []*TaskError // FailFast keeps only the first

	panicMu sync.Mutex
	panics  []*PanicError

	finOnce  sync.Once
	finErr   error
	finPanic *PanicError

	spawned atomic.Int64
	active  atomic.Int64
}

// Run creates a [Group], invokes fn with its [Spawner], then joins every
// spawned task. It returns the aggregated error according to the
// configured [Policy] (default [FailFast]).
//
// If fn panics, the tasks it already spawned are still joined before the
// panic is re-raised.
func Run(parent context.Context, fn func(sp Spawner), opts ...Option) (err error) {
	g, sp := New(parent, opts...)

	defer func() {
		setupPanic := recover()

		g.root.close()
		waitErr, waitPanic := g.s.finalize()

		if setupPanic != nil {
			panic(setupPanic)
		}
		if waitPanic != nil {
			panic(waitPanic)
		}
		err = waitErr
	}()

	fn(sp)
	return nil
}

// Group is a set of tasks that are joined together. Create one via [New];
// join it with [Group.Wait].
type Group struct {
	s    *state
	root *spawner

	once     sync.Once
	result   error
	panicVal *PanicError
}

// New creates a [Group] and its [Spawner] for manual lifecycle control.
// The caller must call [Group.Wait]. Prefer [Run] when the tasks are all
// spawned in one place.
func New(parent context.Context, opts ...Option) (*Group, Spawner) {
	ctx, cancel := context.WithCancelCause(parent)
	s := &state{
		ctx:    ctx,
		cancel: cancel,
		cfg:    newConfig(opts),
	}

	root := &spawner{s: s}
	root.open.Store(true)

	return &Group{s: s, root: root}, root
}

// Wait closes the [Spawner], joins every task, and returns the aggregated
// error. If a task panicked and [WithPanicAsError] was not set, Wait
// panics with the captured [*PanicError].
//
// Wait is idempotent; subsequent calls return the same result.
func (g *Group) Wait() error {
	g.once.Do(func() {
		g.root.close()
		g.result, g.panicVal = g.s.finalize()
	})

	if g.panicVal != nil {
		panic(g.panicVal)
	}
	return g.result
}

// Cancel cancels the group's context with the given cause.
func (g *Group) Cancel(cause error) {
	g.s.cancel(cause)
}

// Context returns the context handed to every task of the group.
func (g *Group) Context() context.Context {
	return g.s.ctx
}

// Active returns the number of tasks currently executing.
func (g *Group) Active() int64 {
	return g.s.active.Load()
}

// Spawned returns the number of tasks spawned so far, finished or not.
func (g *Group) Spawned() int64 {
	return g.s.spawned.Load()
}

func (s *state) finalize() (error, *PanicError) {
	s.finOnce.Do(func() {
		s.wg.Wait()

		cancelledFromOutside := s.ctx.Err() != nil
		s.cancel(nil)

		if !s.cfg.panicAsErr {
			s.panicMu.Lock()
			if len(s.panics) > 0 {
				s.finPanic = s.panics[0]
			}
			s.panicMu.Unlock()
		}

		s.errMu.Lock()
		switch len(s.errs) {
		case 0:
		case 1:
			s.finErr = s.errs[0]
		default:
			errs := make([]error, 0, len(s.errs))
			for _, te := range s.errs {
				errs = append(errs, te)
			}
			s.finErr = errors.Join(errs...)
		}
		s.errMu.Unlock()

		// Tasks skipped because the parent was cancelled leave no error
		// behind; surface the context error instead.
		if s.finErr == nil && s.finPanic == nil && cancelledFromOutside {
			s.finErr = context.Cause(s.ctx)
		}
	})

	return s.finErr, s.finPanic
}

// exec runs fn with panic recovery. A panic is returned as an error under
// WithPanicAsError, otherwise it is stored for finalize and cancels the
// group.
func (s *state) exec(info Info, fn Func) error {
	pe, err := call(func() error {
		if s.cfg.onStart != nil {
			s.cfg.onStart(info)
		}
		return fn(s.ctx)
	})
	if pe == nil {
		return err
	}
	if s.cfg.panicAsErr {
		return pe
	}

	s.panicMu.Lock()
	s.panics = append(s.panics, pe)
	s.panicMu.Unlock()
	s.cancel(pe)
	return nil
}

func (s *state) recordError(info Info, err error) {
	te := &TaskError{Task: info, Err: err}

	s.errMu.Lock()
	defer s.errMu.Unlock()

	switch s.cfg.policy {
	case FailFast:
		if len(s.errs) == 0 {
			s.errs = append(s.errs, te)
			s.cancel(te)
		}
	case Collect:
		s.errs = append(s.errs, te)
	}
}
