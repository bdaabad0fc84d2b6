// Package op describes the suspendable units of work the store runs.
//
// A Job is one suspension: Run performs the blocking part off the store's
// loop, and Resume applies the result back on it. Resume returns a Step that
// either finishes the operation or chains the next Job.
package op

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// PanicError wraps a value recovered from a panicking job.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("operation panicked: %v", e.Value)
}

// Step is the outcome of resuming a job.
type Step struct {
	// Next, when set, keeps the operation pending and suspends again.
	Next *Job
	// Err settles the operation as rejected.
	Err error
	// Then holds follow-up intents dispatched after this step is applied.
	Then []tea.Msg
}

// Done finishes the operation successfully.
func Done(then ...tea.Msg) Step {
	return Step{Then: then}
}

// Fail finishes the operation as rejected.
func Fail(err error, then ...tea.Msg) Step {
	return Step{Err: err, Then: then}
}

// Continue suspends the operation again on next.
func Continue(next *Job, then ...tea.Msg) Step {
	return Step{Next: next, Then: then}
}

// Job is a single suspension point of an operation.
type Job struct {
	run    func(ctx context.Context) (any, error)
	resume func(v any, err error) Step
}

// Await builds a job that calls fn off the loop and hands its result to then.
func Await[T any](fn func(ctx context.Context) (T, error), then func(T, error) Step) *Job {
	return &Job{
		run: func(ctx context.Context) (any, error) {
			return fn(ctx)
		},
		resume: func(v any, err error) Step {
			t, _ := v.(T)
			return then(t, err)
		},
	}
}

// Call is Await for functions that only return an error.
func Call(fn func(ctx context.Context) error, then func(error) Step) *Job {
	return &Job{
		run: func(ctx context.Context) (any, error) {
			return nil, fn(ctx)
		},
		resume: func(_ any, err error) Step {
			return then(err)
		},
	}
}

// Sleep suspends for d, then calls then. A cancelled context ends the
// wait early; then still runs so the operation can settle.
func Sleep(d time.Duration, then func() Step) *Job {
	return &Job{
		run: func(ctx context.Context) (any, error) {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
			}
			return nil, nil
		},
		resume: func(any, error) Step {
			return then()
		},
	}
}

// Run executes the blocking part. Panics are returned as *PanicError.
func (j *Job) Run(ctx context.Context) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return j.run(ctx)
}

// Resume applies the result of Run. A panic inside the continuation fails
// the operation instead of escaping to the caller.
func (j *Job) Resume(v any, err error) (step Step) {
	defer func() {
		if r := recover(); r != nil {
			step = Fail(&PanicError{Value: r, Stack: debug.Stack()})
		}
	}()
	return j.resume(v, err)
}
