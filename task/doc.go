// Package task spawns named goroutines and joins them.
//
// No task is detached: every goroutine started here belongs either to a
// [Group], joined by [Run] or [Group.Wait], or to a [Handle], joined by
// [Handle.Join].
//
//	consumer := task.Go("consumer", func() (int, error) {
//	    return drain(rx)
//	})
//	err := task.Run(ctx, func(sp task.Spawner) {
//	    for i := range 3 {
//	        sp.Spawn(fmt.Sprintf("producer-%d", i), func(ctx context.Context) error {
//	            return produce(ctx, i)
//	        })
//	    }
//	})
//	n, err := consumer.Join()
//
// # Errors
//
// Task errors are wrapped in [*TaskError] so they can be attributed; use
// [IsTaskError], [TaskOf], [CauseOf] and [AllTaskErrors] to inspect them.
// Under [FailFast] (the default) the first error cancels the group's
// context; under [Collect] every error is returned via [errors.Join].
//
// # Panics
//
// A panic in a task is recovered together with its stack trace as a
// [*PanicError] and re-raised in the joining goroutine by [Group.Wait]
// or [Handle.Join]. [WithPanicAsError] turns it into an ordinary error.
//
// # Hooks
//
// [WithOnStart] and [WithOnDone] observe task lifetimes, for example to
// log them.
package task
