package tally

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abbycin/mpsc"
	"github.com/abbycin/mpsc/task"
)

// Report is the outcome of a successful [Run].
type Report struct {
	Counters Counters
	Elapsed  time.Duration
}

// Run starts one consumer and [Producers] producers that each send their
// tag n times over a shared channel, joins the producers, sends the
// sentinel, joins the consumer and writes the elapsed time.
//
// The output is, with the "done" lines in any order:
//
//	thread 0 done
//	thread 1 done
//	thread 2 done
//	thread 0 => n
//	thread 1 => n
//	thread 2 => n
//	receiver done.
//	<seconds>.<nanoseconds>
//
// Any failure returns an error and no report. A panic in a task is
// re-raised in the caller.
func Run(ctx context.Context, n uint64, opts ...Option) (Report, error) {
	cfg := newConfig(opts)
	out := &syncWriter{w: cfg.out}
	hooks := cfg.taskOptions()

	tx, rx := mpsc.New[uint64]()
	// tx stays open until the sentinel has been sent; this defer only
	// matters when a producer panics.
	defer tx.Close()
	start := cfg.now()

	consumer := task.Go("consumer", func() (Counters, error) {
		return Consume(rx, out)
	}, hooks...)

	clones := make([]*mpsc.Sender[uint64], 0, Producers)
	defer func() {
		// A producer skipped by a cancelled group never closes its clone.
		for _, c := range clones {
			c.Close()
		}
	}()

	err := task.Run(ctx, func(sp task.Spawner) {
		for tag := range uint64(Producers) {
			ptx := tx.Clone()
			clones = append(clones, ptx)

			sp.Spawn(fmt.Sprintf("producer-%d", tag), func(ctx context.Context) error {
				if err := Produce(ctx, ptx, tag, n); err != nil {
					return err
				}
				fmt.Fprintf(out, "thread %d done\n", tag)
				return nil
			})
		}
	}, hooks...)

	for _, c := range clones {
		c.Close()
	}

	if err != nil {
		cfg.logf("producers failed, closing channel without sentinel: %v", err)
		tx.Close()
		_, cerr := consumer.Join()
		return Report{}, errors.Join(err, cerr)
	}

	cfg.logf("producers joined, sending sentinel %d", cfg.sentinel)
	if err := tx.Send(cfg.sentinel); err != nil {
		tx.Close()
		_, cerr := consumer.Join()
		return Report{}, errors.Join(fmt.Errorf("tally: sentinel: %w", err), cerr)
	}
	tx.Close()

	counters, err := consumer.Join()
	if err != nil {
		return Report{}, err
	}

	elapsed := cfg.now().Sub(start)
	fmt.Fprintln(out, FormatElapsed(elapsed))

	return Report{Counters: counters, Elapsed: elapsed}, nil
}

// FormatElapsed renders d as whole seconds, a dot, and the remaining
// nanoseconds without zero padding: 1.5s is "1.500000000" and
// 1s+42ns is "1.42".
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%d.%d", d/time.Second, d%time.Second)
}
