package task

import "time"

// Handle is a joinable task that produces a value of type T. Create one
// via [Go]; every Handle must eventually be joined.
type Handle[T any] struct {
	info       Info
	panicAsErr bool

	done  chan struct{}
	val   T
	err   error
	pe    *PanicError
}

// Go runs fn in a new goroutine and returns a [Handle] to join it.
// [WithOnStart], [WithOnDone] and [WithPanicAsError] apply; WithPolicy is
// ignored.
//
//	h := task.Go("consumer", func() (Counters, error) {
//	    return consume(rx)
//	})
//	counters, err := h.Join()
func Go[T any](name string, fn func() (T, error), opts ...Option) *Handle[T] {
	cfg := newConfig(opts)
	h := &Handle[T]{
		info:       Info{Name: name},
		panicAsErr: cfg.panicAsErr,
		done:       make(chan struct{}),
	}

	go func() {
		defer close(h.done)

		start := time.Now()
		pe, err := call(func() error {
			if cfg.onStart != nil {
				cfg.onStart(h.info)
			}
			v, err := fn()
			h.val = v
			return err
		})
		elapsed := time.Since(start)

		switch {
		case pe != nil:
			h.pe = pe
			err = pe
		case err != nil:
			h.err = &TaskError{Task: h.info, Err: err}
		}

		if cfg.onDone != nil {
			cfg.onDone(h.info, err, elapsed)
		}
	}()

	return h
}

// Join blocks until the task finishes and returns its value and error.
// A non-nil error is a [*TaskError]. If the task panicked, Join re-panics
// with the captured [*PanicError], unless [WithPanicAsError] was given, in
// which case the panic is returned wrapped in a TaskError.
//
// Join may be called any number of times, from any goroutine.
func (h *Handle[T]) Join() (T, error) {
	<-h.done

	if h.pe != nil {
		if !h.panicAsErr {
			panic(h.pe)
		}
		var zero T
		return zero, &TaskError{Task: h.info, Err: h.pe}
	}
	return h.val, h.err
}

// Done returns a channel that is closed when the task finishes.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Info returns the task's metadata.
func (h *Handle[T]) Info() Info {
	return h.info
}
