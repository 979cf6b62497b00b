package tally

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/abbycin/mpsc"
)

const (
	// Producers is the number of producer tasks. Producer i sends tag i.
	Producers = 3

	// Sentinel is the value the orchestrator sends once every producer
	// has been joined. Any value >= Producers stops the consumer.
	Sentinel uint64 = 309
)

// ctxCheckEvery is how many sends a producer makes between checks of its
// context.
const ctxCheckEvery = 1024

// Counters holds the number of messages received per tag.
type Counters [Producers]uint64

// Total returns the sum of all counters.
func (c Counters) Total() uint64 {
	var sum uint64
	for _, n := range c {
		sum += n
	}
	return sum
}

// Produce sends tag to tx exactly n times, in order, and closes tx when
// it returns. It stops early with ctx.Err() if ctx is cancelled.
func Produce(ctx context.Context, tx *mpsc.Sender[uint64], tag, n uint64) error {
	defer tx.Close()

	for i := uint64(0); i < n; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := tx.Send(tag); err != nil {
			return fmt.Errorf("tally: producer %d: %w", tag, err)
		}
	}
	return nil
}

// Consume receives from rx until it gets a value that is not a tag, then
// writes one "thread <tag> => <count>" line per tag, in tag order, and a
// final "receiver done." line to out. rx is closed when Consume returns.
//
// Consume never relies on end-of-stream: a receive error means the
// sentinel was never sent and is returned as a fault.
func Consume(rx *mpsc.Receiver[uint64], out io.Writer) (Counters, error) {
	defer rx.Close()

	var c Counters
	for {
		v, err := rx.Recv()
		if err != nil {
			return Counters{}, fmt.Errorf("tally: consumer: %w", err)
		}
		if v >= Producers {
			break
		}
		c[v]++
	}

	for tag, n := range c {
		fmt.Fprintf(out, "thread %d => %d\n", tag, n)
	}
	fmt.Fprintln(out, "receiver done.")

	return c, nil
}

// syncWriter serializes writes so that lines printed by concurrent
// producers never interleave.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
