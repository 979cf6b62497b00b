package task

import "time"

// Policy determines how a [Group] handles errors from its tasks.
type Policy int

const (
	// FailFast cancels the group's context when the first error occurs.
	// [Group.Wait] returns that first error.
	FailFast Policy = iota

	// Collect gathers all errors without cancelling siblings.
	// [Group.Wait] returns all errors joined via [errors.Join].
	Collect
)

// Info describes a task. It is passed to the hooks registered with
// [WithOnStart] and [WithOnDone] and carried by [TaskError].
type Info struct {
	Name string
}

type config struct {
	policy     Policy
	panicAsErr bool
	onStart    func(Info)
	onDone     func(Info, error, time.Duration)
}

// Option configures a [Group] or a [Handle].
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{policy: FailFast}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithPolicy sets the error policy of a [Group]. It has no effect on a
// [Handle]. It panics if p is not a known Policy value.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		switch p {
		case FailFast, Collect:
			c.policy = p
		default:
			panic("task: invalid policy")
		}
	}
}

// WithPanicAsError converts panics in tasks to [*PanicError] values
// returned as regular errors, instead of re-raising them from
// [Group.Wait] or [Handle.Join].
func WithPanicAsError() Option {
	return func(c *config) {
		c.panicAsErr = true
	}
}

// WithOnStart registers a hook invoked in the task's goroutine right
// before the task function runs.
func WithOnStart(fn func(Info)) Option {
	return func(c *config) {
		c.onStart = fn
	}
}

// WithOnDone registers a hook invoked in the task's goroutine after the
// task function returns. It receives the task's error (nil on success)
// and its wall-clock duration.
func WithOnDone(fn func(Info, error, time.Duration)) Option {
	return func(c *config) {
		c.onDone = fn
	}
}
