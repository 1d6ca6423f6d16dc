package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securestore/pkg/async"
)

// TestAsyncFunctionality tests the basic functionality of the Async helper.
func TestAsyncFunctionality(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	futureString := async.Async(ctx, 42, func(ctx context.Context, num int) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return fmt.Sprintf("Number: %d", num), nil
	})

	type payload struct {
		A int
		B int
	}
	futureInt := async.Async(ctx, payload{A: 10, B: 32}, func(ctx context.Context, data payload) (int, error) {
		return data.A + data.B, nil
	})

	resultString, errString := futureString.Await()
	resultInt, errInt := futureInt.Await()

	if errString != nil || resultString != "Number: 42" {
		t.Errorf("Expected 'Number: 42', got '%s', error: %v", resultString, errString)
	}
	if errInt != nil || resultInt != 42 {
		t.Errorf("Expected 42, got %d, error: %v", resultInt, errInt)
	}
	if !futureInt.IsComplete() {
		t.Error("Expected future to be complete after Await")
	}
}

// TestAsyncPreCanceledContext ensures fn never runs when ctx is already done.
func TestAsyncPreCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	future := async.Async(ctx, 1, func(context.Context, int) (int, error) {
		called.Store(true)
		return 1, nil
	})

	result, err := future.Await()
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result)
	assert.False(t, called.Load())
}

func TestAsyncError(t *testing.T) {
	t.Parallel()
	errBoom := errors.New("boom")

	_, err := async.Async(context.Background(), "x", func(context.Context, string) (int, error) {
		return 0, errBoom
	}).Await()
	assert.ErrorIs(t, err, errBoom)
}

func TestAsyncPanic(t *testing.T) {
	t.Parallel()

	_, err := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
		panic("disk on fire")
	}).Await()
	require.ErrorIs(t, err, async.ErrPanic)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestAwaitContext(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})

	future := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
		<-release
		return 7, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := future.AwaitContext(ctx)
	require.ErrorIs(t, err, async.ErrTimeout)
	assert.False(t, future.IsComplete())

	close(release)
	result, err := future.AwaitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, result)
}

func TestGroupWait(t *testing.T) {
	t.Parallel()
	var (
		g    async.Group
		done atomic.Int32
	)

	for i := range 20 {
		async.Go(&g, context.Background(), i, func(_ context.Context, n int) (struct{}, error) {
			time.Sleep(time.Duration(n%5) * time.Millisecond)
			done.Add(1)
			return struct{}{}, nil
		})
	}

	g.Wait()
	assert.Equal(t, int32(20), done.Load())
}

func TestGroupWait_CountsSkippedFutures(t *testing.T) {
	t.Parallel()
	var g async.Group
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := async.Go(&g, ctx, 0, func(context.Context, int) (int, error) { return 1, nil })
	g.Wait()
	assert.True(t, f.IsComplete())
}

func TestGroupWaitContext(t *testing.T) {
	t.Parallel()
	var g async.Group
	release := make(chan struct{})

	async.Go(&g, context.Background(), 0, func(context.Context, int) (int, error) {
		<-release
		return 0, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, g.WaitContext(ctx), async.ErrTimeout)

	close(release)
	require.NoError(t, g.WaitContext(context.Background()))
}
