package queue_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/queue"
)

func newTestWorker(t *testing.T, storage *queue.MemoryStorage, handlers ...queue.Handler) *queue.Worker {
	t.Helper()

	worker, err := queue.NewWorker(storage,
		queue.WithPollInterval(10*time.Millisecond),
		queue.WithMaxConcurrentJobs(4),
		queue.WithWorkerLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, err)
	require.NoError(t, worker.RegisterHandlers(handlers...))
	return worker
}

func TestWorker_ProcessesJob(t *testing.T) {
	ctx := context.Background()
	storage := queue.NewMemoryStorage()
	defer storage.Close()

	var processed atomic.Int32
	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		processed.Add(1)
		return nil
	})

	worker := newTestWorker(t, storage, handler)
	require.NoError(t, worker.Start(ctx))
	defer worker.Stop()

	enq, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)
	require.NoError(t, enq.Enqueue(ctx, testPayload{NotificationID: "n1"}))

	assert.Eventually(t, func() bool {
		return processed.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return storage.CountByStatus(queue.JobStatusCompleted) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_RetriesFailedJob(t *testing.T) {
	ctx := context.Background()
	storage := queue.NewMemoryStorage()
	defer storage.Close()

	var attempts atomic.Int32
	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		attempts.Add(1)
		return errors.New("provider unavailable")
	})

	worker := newTestWorker(t, storage, handler)
	require.NoError(t, worker.Start(ctx))
	defer worker.Stop()

	enq, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)
	require.NoError(t, enq.Enqueue(ctx, testPayload{NotificationID: "n1"}, queue.WithMaxAttempts(1)))

	// With a single allowed attempt the first failure is terminal.
	assert.Eventually(t, func() bool {
		return storage.CountByStatus(queue.JobStatusFailed) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, attempts.Load())
}

func TestWorker_RecoversFromPanic(t *testing.T) {
	ctx := context.Background()
	storage := queue.NewMemoryStorage()
	defer storage.Close()

	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		panic("boom")
	})

	worker := newTestWorker(t, storage, handler)
	require.NoError(t, worker.Start(ctx))
	defer worker.Stop()

	enq, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)
	require.NoError(t, enq.Enqueue(ctx, testPayload{NotificationID: "n1"}, queue.WithMaxAttempts(1)))

	assert.Eventually(t, func() bool {
		return storage.CountByStatus(queue.JobStatusFailed) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_StartRequiresHandlers(t *testing.T) {
	storage := queue.NewMemoryStorage()
	defer storage.Close()

	worker, err := queue.NewWorker(storage)
	require.NoError(t, err)

	assert.ErrorIs(t, worker.Start(context.Background()), queue.ErrNoHandlers)
}

func TestWorker_StartStopLifecycle(t *testing.T) {
	ctx := context.Background()
	storage := queue.NewMemoryStorage()
	defer storage.Close()

	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error { return nil })
	worker := newTestWorker(t, storage, handler)

	require.NoError(t, worker.Start(ctx))
	assert.Error(t, worker.Start(ctx), "double start rejected")

	require.NoError(t, worker.Stop())
	assert.Error(t, worker.Stop(), "double stop rejected")
}

func TestWorker_GracefulStopWaitsForInflight(t *testing.T) {
	ctx := context.Background()
	storage := queue.NewMemoryStorage()
	defer storage.Close()

	started := make(chan struct{})
	var finished atomic.Bool
	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		close(started)
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
		return nil
	})

	worker := newTestWorker(t, storage, handler)
	require.NoError(t, worker.Start(ctx))

	enq, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)
	require.NoError(t, enq.Enqueue(ctx, testPayload{NotificationID: "n1"}))

	<-started
	require.NoError(t, worker.Stop())
	assert.True(t, finished.Load(), "in-flight job completed before Stop returned")
}
