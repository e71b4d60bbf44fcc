package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesTask(t *testing.T) {
	done := make(chan Task, 1)
	q := NewQueue("test", func(_ context.Context, task Task) error {
		done <- task
		return nil
	}, QueueConfig{Workers: 1})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Task{ID: "t1", Kind: "noop", Payload: "x"}))

	select {
	case task := <-done:
		assert.Equal(t, "t1", task.ID)
		assert.Equal(t, "x", task.Payload)
		assert.False(t, task.Enqueued.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("task was never processed")
	}
}

func TestQueueRetriesFailedTask(t *testing.T) {
	var attempts int32
	done := make(chan struct{})
	q := NewQueue("test", func(context.Context, Task) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Task{ID: "t1", Kind: "flaky"}))

	select {
	case <-done:
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	case <-time.After(2 * time.Second):
		t.Fatal("task never succeeded")
	}
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var attempts int32
	q := NewQueue("test", func(context.Context, Task) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent")
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Task{ID: "t1", Kind: "broken"}))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&attempts) == 2
	}, 2*time.Second, 10*time.Millisecond)

	q.Stop()
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestQueueEnqueueBeforeStartFails(t *testing.T) {
	q := NewQueue("test", func(context.Context, Task) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Task{ID: "t1"}))
}

func TestQueueStopIsIdempotent(t *testing.T) {
	q := NewQueue("test", func(context.Context, Task) error { return nil }, QueueConfig{Workers: 2})
	q.Start(context.Background())
	q.Stop()
	q.Stop()
}
