// package tasks implements cancellable asynchronous operations with result-or-failure values.
package tasks

import (
	"context"
	"time"
)

// Result is the outcome of a finished [Task].
type Result[T any] struct {
	Value T
	Err   error
}

// Task is a future for a value computed in the background.
type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	result Result[T]
}

// Go runs fn in a new goroutine. The context handed to fn is cancelled when ctx is, or by [Task.Cancel].
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{done: make(chan struct{}), cancel: cancel}

	go func() {
		defer close(t.done)
		defer cancel()
		value, err := fn(ctx)
		t.result = Result[T]{Value: value, Err: err}
	}()
	return t
}

// Done is closed once the task has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Cancel requests early termination. The task still finishes and reports a result.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Await blocks until the task finishes or ctx is done, whichever comes first.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.result.Value, t.result.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome and true if the task has finished, or the zero [Result] and false otherwise.
func (t *Task[T]) Result() (Result[T], bool) {
	select {
	case <-t.done:
		return t.result, true
	default:
		return Result[T]{}, false
	}
}

// Simulate waits for d or until ctx is done. A non-positive d returns immediately unless ctx is already done.
func Simulate(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
