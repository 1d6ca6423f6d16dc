package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to be done, whichever comes first.
// The computation itself is not canceled when ctx ends.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, errors.Join(ErrTimeout, ctx.Err())
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async executes a function asynchronously and returns a Future.
// The function accepts a context.Context and a parameter of any type T, and returns (U, error).
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	return start(ctx, param, fn, nil)
}

// Group tracks futures started through Go so their owner can drain them.
// The zero value is ready to use.
type Group struct {
	wg sync.WaitGroup
}

// Go starts fn like Async and registers it with g.
func Go[T any, U any](g *Group, ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	g.wg.Add(1)
	return start(ctx, param, fn, g.wg.Done)
}

// Wait blocks until every future started through g has completed.
func (g *Group) Wait() {
	g.wg.Wait()
}

// WaitContext is Wait bounded by ctx.
func (g *Group) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrTimeout, ctx.Err())
	}
}

func start[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error), finished func()) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		if finished != nil {
			defer finished()
		}
		defer close(f.done)

		// Pre-canceled contexts never reach fn.
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		f.result, f.err = fn(ctx, param)
	}()

	return f
}
