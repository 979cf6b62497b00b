package tally

import (
	"io"
	"os"
	"time"

	"github.com/abbycin/mpsc/task"
)

// Logger hides the logging function Printf behind a simple interface so
// that *log.Logger or any compatible logger can be plugged in.
type Logger interface {
	Printf(format string, v ...any)
}

type config struct {
	out      io.Writer
	logger   Logger
	sentinel uint64
	now      func() time.Time
}

// Option configures [Run].
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		out:      os.Stdout,
		sentinel: Sentinel,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithOutput sets where the progress lines, the per-tag totals and the
// elapsed time are written. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			panic("tally: WithOutput requires a non-nil writer")
		}
		c.out = w
	}
}

// WithLogger enables diagnostic logging of task lifetimes and of the
// shutdown handshake. Without it Run logs nothing.
func WithLogger(l Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithSentinel overrides the value sent to stop the consumer. It panics
// if v is a tag.
func WithSentinel(v uint64) Option {
	return func(c *config) {
		if v < Producers {
			panic("tally: sentinel must not be a producer tag")
		}
		c.sentinel = v
	}
}

// WithClock replaces time.Now for measuring the elapsed time.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

func (c *config) logf(format string, v ...any) {
	if c.logger != nil {
		c.logger.Printf(format, v...)
	}
}

// taskOptions turns the logger into task lifecycle hooks.
func (c *config) taskOptions() []task.Option {
	if c.logger == nil {
		return nil
	}
	return []task.Option{
		task.WithOnStart(func(info task.Info) {
			c.logf("%s: started", info.Name)
		}),
		task.WithOnDone(func(info task.Info, err error, d time.Duration) {
			if err != nil {
				c.logf("%s: failed after %v: %v", info.Name, d, err)
				return
			}
			c.logf("%s: finished in %v", info.Name, d)
		}),
	}
}
