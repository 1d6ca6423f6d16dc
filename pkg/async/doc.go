// Package async runs functions in the background and lets callers wait for
// them.
//
// A Future represents the eventual result of an asynchronous operation. Async
// starts the supplied function in its own goroutine and immediately returns a
// *Future. The caller can wait with Await, bound the wait with AwaitContext,
// or poll with IsComplete.
//
// A Group tracks futures started with Go so their owner can drain them before
// shutting down. The blob store uses one for its fire-and-forget writes.
//
// A context that is already canceled when the future starts short-circuits the
// function: it is never called and the future completes with ctx.Err(). A
// panic inside the function completes the future with ErrPanic instead of
// crashing the process.
//
// # Usage
//
//	var g async.Group
//	async.Go(&g, context.WithoutCancel(ctx), job, func(ctx context.Context, j Job) (struct{}, error) {
//	    return struct{}{}, j.Run(ctx)
//	})
//	// ...
//	g.Wait()
//
// # Error Handling
//
// Futures return the error produced by the function. AwaitContext and
// Group.WaitContext return ErrTimeout joined with ctx.Err() when they stop
// waiting early.
package async
