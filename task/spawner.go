package task

import (
	"sync/atomic"
	"time"
)

// Spawner starts tasks inside a [Group].
type Spawner interface {
	// Spawn starts fn in a new goroutine. The task is joined by the
	// group's Wait (or by Run). Spawn panics once the group has been
	// joined.
	Spawn(name string, fn Func)
}

type spawner struct {
	s    *state
	open atomic.Bool
}

func (sp *spawner) Spawn(name string, fn Func) {
	// Check open BEFORE wg.Add to avoid racing finalize's wg.Wait.
	if !sp.open.Load() {
		panic("task: Spawn called after group shutdown")
	}

	s := sp.s
	s.wg.Add(1)
	s.spawned.Add(1)

	info := Info{Name: name}

	go func() {
		defer s.wg.Done()

		if s.ctx.Err() != nil {
			// The group is already failing; the real cause is recorded.
			return
		}

		s.active.Add(1)
		start := time.Now()
		err := s.exec(info, fn)
		elapsed := time.Since(start)
		s.active.Add(-1)

		if s.cfg.onDone != nil {
			// Outside exec: a panicking onDone hook is not recovered.
			s.cfg.onDone(info, err, elapsed)
		}

		if err != nil {
			s.recordError(info, err)
		}
	}()
}

func (sp *spawner) close() {
	sp.open.Store(false)
}
