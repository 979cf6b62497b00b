package task

import (
	"errors"
	"fmt"
)

// TaskError wraps an error together with the [Info] of the task that
// produced it. Every error returned by [Group.Wait] and [Handle.Join] is
// a TaskError, possibly joined with others.
type TaskError struct {
	Task Info
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Task.Name, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// IsTaskError reports whether err (or any error in its chain) is a [*TaskError].
func IsTaskError(err error) bool {
	var te *TaskError
	return errors.As(err, &te)
}

// TaskOf extracts the [Info] from the first [*TaskError] in err's chain.
func TaskOf(err error) (Info, bool) {
	var te *TaskError
	if errors.As(err, &te) {
		return te.Task, true
	}
	return Info{}, false
}

// CauseOf returns the cause wrapped by the first [*TaskError] in err's
// chain, or err itself if there is none.
func CauseOf(err error) error {
	var te *TaskError
	if errors.As(err, &te) {
		return te.Err
	}
	return err
}

// AllTaskErrors recursively collects every [*TaskError] from err's chain,
// including errors joined via [errors.Join]. Returns nil if none are found.
func AllTaskErrors(err error) []*TaskError {
	if err == nil {
		return nil
	}

	var out []*TaskError
	collectTaskErrors(err, &out)
	return out
}

func collectTaskErrors(err error, out *[]*TaskError) {
	switch e := err.(type) {
	case *TaskError:
		*out = append(*out, e)

	case interface{ Unwrap() []error }:
		for _, sub := range e.Unwrap() {
			collectTaskErrors(sub, out)
		}

	case interface{ Unwrap() error }:
		collectTaskErrors(e.Unwrap(), out)
	}
}
