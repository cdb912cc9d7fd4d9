package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/queue"
)

type testPayload struct {
	NotificationID string `json:"notification_id"`
}

func TestEnqueuer_New(t *testing.T) {
	_, err := queue.NewEnqueuer(nil)
	assert.ErrorIs(t, err, queue.ErrStorageNil)

	storage := queue.NewMemoryStorage()
	defer storage.Close()

	enq, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)
	assert.NotNil(t, enq)
}

func TestEnqueuer_Enqueue(t *testing.T) {
	ctx := context.Background()
	storage := queue.NewMemoryStorage()
	defer storage.Close()

	enq, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)

	require.NoError(t, enq.Enqueue(ctx, testPayload{NotificationID: "n1"}))
	assert.Equal(t, 1, storage.CountByStatus(queue.JobStatusPending))

	assert.ErrorIs(t, enq.Enqueue(ctx, nil), queue.ErrPayloadNil)
}

func TestEnqueuer_EnqueueOptions(t *testing.T) {
	ctx := context.Background()
	storage := queue.NewMemoryStorage()
	defer storage.Close()

	enq, err := queue.NewEnqueuer(storage, queue.WithDefaultQueue("push"))
	require.NoError(t, err)

	require.NoError(t, enq.Enqueue(ctx, testPayload{NotificationID: "n1"},
		queue.WithPriority(queue.PriorityHigh),
		queue.WithMaxAttempts(5),
		queue.WithDelay(time.Hour),
	))

	// The delayed job must not be claimable yet.
	_, err = storage.ClaimJob(ctx, uuid.New(), []string{"push"}, time.Minute)
	assert.ErrorIs(t, err, queue.ErrNoJobToClaim)
}

func TestEnqueuer_InvalidPriority(t *testing.T) {
	ctx := context.Background()
	storage := queue.NewMemoryStorage()
	defer storage.Close()

	enq, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)

	err = enq.Enqueue(ctx, testPayload{}, queue.WithPriority(queue.Priority(110)))
	assert.ErrorIs(t, err, queue.ErrInvalidPriority)
}
