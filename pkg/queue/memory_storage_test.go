package queue

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingJob(name string, priority Priority) *Job {
	return &Job{
		ID:          uuid.New(),
		Queue:       DefaultQueueName,
		JobName:     name,
		Payload:     []byte(`{}`),
		Status:      JobStatusPending,
		Priority:    priority,
		MaxAttempts: 3,
		ScheduledAt: time.Now().Add(-time.Second),
		CreatedAt:   time.Now(),
	}
}

func TestMemoryStorage_ClaimOrdering(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	defer storage.Close()

	low := pendingJob("low", PriorityLow)
	high := pendingJob("high", PriorityHigh)
	require.NoError(t, storage.CreateJob(ctx, low))
	require.NoError(t, storage.CreateJob(ctx, high))

	claimed, err := storage.ClaimJob(ctx, uuid.New(), []string{DefaultQueueName}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, high.ID, claimed.ID, "higher priority claimed first")

	claimed, err = storage.ClaimJob(ctx, uuid.New(), []string{DefaultQueueName}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, low.ID, claimed.ID)

	_, err = storage.ClaimJob(ctx, uuid.New(), []string{DefaultQueueName}, time.Minute)
	assert.ErrorIs(t, err, ErrNoJobToClaim)
}

func TestMemoryStorage_ClaimRespectsQueues(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	defer storage.Close()

	job := pendingJob("j1", PriorityDefault)
	job.Queue = "push"
	require.NoError(t, storage.CreateJob(ctx, job))

	_, err := storage.ClaimJob(ctx, uuid.New(), []string{"other"}, time.Minute)
	assert.ErrorIs(t, err, ErrNoJobToClaim)

	claimed, err := storage.ClaimJob(ctx, uuid.New(), []string{"push"}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, job.ID, claimed.ID)
}

func TestMemoryStorage_CompleteJob(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	defer storage.Close()

	job := pendingJob("j1", PriorityDefault)
	require.NoError(t, storage.CreateJob(ctx, job))

	// Completing an unclaimed job is rejected.
	assert.ErrorIs(t, storage.CompleteJob(ctx, job.ID), ErrJobNotProcessing)

	_, err := storage.ClaimJob(ctx, uuid.New(), []string{DefaultQueueName}, time.Minute)
	require.NoError(t, err)
	require.NoError(t, storage.CompleteJob(ctx, job.ID))

	got, ok := storage.JobByID(job.ID)
	require.True(t, ok)
	assert.Equal(t, JobStatusCompleted, got.Status)
	assert.NotNil(t, got.ProcessedAt)
}

func TestMemoryStorage_FailJobRetriesThenTerminal(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	defer storage.Close()

	job := pendingJob("j1", PriorityDefault)
	job.MaxAttempts = 2
	require.NoError(t, storage.CreateJob(ctx, job))

	// First failure reschedules with backoff.
	_, err := storage.ClaimJob(ctx, uuid.New(), []string{DefaultQueueName}, time.Minute)
	require.NoError(t, err)
	require.NoError(t, storage.FailJob(ctx, job.ID, "provider unavailable"))

	got, ok := storage.JobByID(job.ID)
	require.True(t, ok)
	assert.Equal(t, JobStatusPending, got.Status)
	assert.EqualValues(t, 1, got.Attempts)
	assert.True(t, got.ScheduledAt.After(time.Now()), "backoff pushes scheduled time into the future")

	// Rewind the backoff so the job is claimable again.
	storage.mu.Lock()
	storage.jobs[job.ID].ScheduledAt = time.Now().Add(-time.Second)
	storage.mu.Unlock()

	// Second failure is terminal.
	_, err = storage.ClaimJob(ctx, uuid.New(), []string{DefaultQueueName}, time.Minute)
	require.NoError(t, err)
	require.NoError(t, storage.FailJob(ctx, job.ID, "provider unavailable"))

	got, ok = storage.JobByID(job.ID)
	require.True(t, ok)
	assert.Equal(t, JobStatusFailed, got.Status)
	assert.EqualValues(t, 2, got.Attempts)
	require.NotNil(t, got.Error)
	assert.Equal(t, "provider unavailable", *got.Error)
}

func TestMemoryStorage_LockExpiryRecoversJob(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	defer storage.Close()

	job := pendingJob("j1", PriorityDefault)
	require.NoError(t, storage.CreateJob(ctx, job))

	// Claim with an already-expired lock to simulate a dead worker.
	_, err := storage.ClaimJob(ctx, uuid.New(), []string{DefaultQueueName}, -time.Second)
	require.NoError(t, err)

	storage.expireLocks()

	got, ok := storage.JobByID(job.ID)
	require.True(t, ok)
	assert.Equal(t, JobStatusPending, got.Status)
	assert.Nil(t, got.LockedBy)
}

func TestMemoryStorage_UnknownJob(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	defer storage.Close()

	assert.ErrorIs(t, storage.CompleteJob(ctx, uuid.New()), ErrJobNotFound)
	assert.ErrorIs(t, storage.FailJob(ctx, uuid.New(), "x"), ErrJobNotFound)
}
