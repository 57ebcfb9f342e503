package async

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Future holds the eventual result of an operation started with Go.
// Callers that need the result inline call Await; callers that complete
// later attach a callback with OnDone. Both see the same result, so code
// written against a Future behaves identically whether its consumer is
// synchronous or deferred.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error

	mu        sync.Mutex
	callbacks []func(T, error)
}

// Go runs fn in its own goroutine and returns a Future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.value, f.err = fn()
		close(f.done)

		f.mu.Lock()
		callbacks := f.callbacks
		f.callbacks = nil
		f.mu.Unlock()

		for _, cb := range callbacks {
			cb(f.value, f.err)
		}
	}()
	return f
}

// Resolved returns an already-completed Future.
func Resolved[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)
	return f
}

// Await blocks until the result is available or ctx is cancelled.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnDone registers a completion callback invoked with (result, error).
// If the future already completed, the callback runs immediately on the
// calling goroutine.
func (f *Future[T]) OnDone(cb func(T, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		cb(f.value, f.err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, cb)
	f.mu.Unlock()
}

// Detach runs fn on its own goroutine with an error channel that ends in
// the log. The caller's success or failure is never coupled to fn's.
func Detach(logger *zap.Logger, name string, fn func(ctx context.Context) error) {
	// The detached task must outlive the caller's request context.
	ctx := context.Background()
	go func() {
		if err := fn(ctx); err != nil {
			logger.Error("Detached task failed",
				zap.String("task", name),
				zap.Error(err),
			)
		}
	}()
}
