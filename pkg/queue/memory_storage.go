package queue

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage implements the enqueuer and worker storage interfaces for
// testing and single-process deployments.
type MemoryStorage struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job

	byQueue  map[string][]uuid.UUID
	byStatus map[JobStatus][]uuid.UUID

	lockTicker *time.Ticker
	done       chan struct{}
	closeOnce  sync.Once
}

// NewMemoryStorage creates a new in-memory storage implementation.
func NewMemoryStorage() *MemoryStorage {
	ms := &MemoryStorage{
		jobs:     make(map[uuid.UUID]*Job),
		byQueue:  make(map[string][]uuid.UUID),
		byStatus: make(map[JobStatus][]uuid.UUID),
		done:     make(chan struct{}),
	}

	// Recover jobs whose worker died holding the claim lock.
	ms.lockTicker = time.NewTicker(time.Second)
	go ms.lockExpirationManager()

	return ms
}

// Close stops the background lock expiration goroutine.
func (ms *MemoryStorage) Close() error {
	ms.closeOnce.Do(func() {
		close(ms.done)
		ms.lockTicker.Stop()
	})
	return nil
}

// CreateJob implements EnqueuerStorage.
func (ms *MemoryStorage) CreateJob(ctx context.Context, job *Job) error {
	if job == nil {
		return ErrPayloadNil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.jobs[job.ID]; exists {
		return fmt.Errorf("job with ID %s already exists", job.ID)
	}

	jobCopy := *job
	ms.jobs[job.ID] = &jobCopy

	ms.byQueue[job.Queue] = append(ms.byQueue[job.Queue], job.ID)
	ms.byStatus[job.Status] = append(ms.byStatus[job.Status], job.ID)

	return nil
}

// ClaimJob implements WorkerStorage. Selection is priority-first with the
// earliest scheduled time breaking ties within a tier.
func (ms *MemoryStorage) ClaimJob(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Job, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	var best *Job
	var bestPriority Priority = -1

	for _, jobID := range ms.byStatus[JobStatusPending] {
		job := ms.jobs[jobID]

		if !slices.Contains(queues, job.Queue) {
			continue
		}
		if job.ScheduledAt.After(now) {
			continue
		}
		if job.LockedUntil != nil && job.LockedUntil.After(now) {
			continue
		}

		if best == nil ||
			job.Priority > bestPriority ||
			(job.Priority == bestPriority && job.ScheduledAt.Before(best.ScheduledAt)) {
			best = job
			bestPriority = job.Priority
		}
	}

	if best == nil {
		return nil, ErrNoJobToClaim
	}

	lockUntil := now.Add(lockDuration)
	best.Status = JobStatusProcessing
	best.LockedUntil = &lockUntil
	best.LockedBy = &workerID

	ms.removeFromStatusIndex(best.ID, JobStatusPending)
	ms.byStatus[JobStatusProcessing] = append(ms.byStatus[JobStatusProcessing], best.ID)

	jobCopy := *best
	return &jobCopy, nil
}

// CompleteJob implements WorkerStorage.
func (ms *MemoryStorage) CompleteJob(ctx context.Context, jobID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return ErrJobNotFound
	}
	if job.Status != JobStatusProcessing {
		return ErrJobNotProcessing
	}

	now := time.Now()
	job.Status = JobStatusCompleted
	job.ProcessedAt = &now
	job.LockedUntil = nil
	job.LockedBy = nil

	ms.removeFromStatusIndex(jobID, JobStatusProcessing)
	ms.byStatus[JobStatusCompleted] = append(ms.byStatus[JobStatusCompleted], jobID)

	return nil
}

// FailJob implements WorkerStorage. Jobs with attempts remaining go back to
// pending with an exponential backoff (30s, 1m, 2m...); exhausted jobs stay
// failed for operator inspection.
func (ms *MemoryStorage) FailJob(ctx context.Context, jobID uuid.UUID, errorMsg string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return ErrJobNotFound
	}
	if job.Status != JobStatusProcessing {
		return ErrJobNotProcessing
	}

	job.Attempts++
	job.Error = &errorMsg
	job.LockedUntil = nil
	job.LockedBy = nil

	if job.Attempts >= job.MaxAttempts {
		job.Status = JobStatusFailed
		ms.removeFromStatusIndex(jobID, JobStatusProcessing)
		ms.byStatus[JobStatusFailed] = append(ms.byStatus[JobStatusFailed], jobID)
	} else {
		job.Status = JobStatusPending
		ms.removeFromStatusIndex(jobID, JobStatusProcessing)
		ms.byStatus[JobStatusPending] = append(ms.byStatus[JobStatusPending], jobID)

		backoff := 30 * time.Second << (job.Attempts - 1)
		job.ScheduledAt = time.Now().Add(backoff)
	}

	return nil
}

// JobByID returns a copy of the job, for tests and inspection.
func (ms *MemoryStorage) JobByID(jobID uuid.UUID) (*Job, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return nil, false
	}
	jobCopy := *job
	return &jobCopy, true
}

// CountByStatus returns how many jobs are in the given status.
func (ms *MemoryStorage) CountByStatus(status JobStatus) int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return len(ms.byStatus[status])
}

func (ms *MemoryStorage) removeFromStatusIndex(jobID uuid.UUID, status JobStatus) {
	ms.byStatus[status] = slices.DeleteFunc(ms.byStatus[status], func(id uuid.UUID) bool {
		return id == jobID
	})
}

func (ms *MemoryStorage) lockExpirationManager() {
	for {
		select {
		case <-ms.lockTicker.C:
			ms.expireLocks()
		case <-ms.done:
			return
		}
	}
}

// expireLocks resets processing jobs whose claim lock has lapsed back to
// pending so another worker can pick them up. The attempt counter is
// preserved.
func (ms *MemoryStorage) expireLocks() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	for _, jobID := range ms.byStatus[JobStatusProcessing] {
		job := ms.jobs[jobID]
		if job.LockedUntil != nil && job.LockedUntil.Before(now) {
			job.Status = JobStatusPending
			job.LockedUntil = nil
			job.LockedBy = nil

			ms.removeFromStatusIndex(jobID, JobStatusProcessing)
			ms.byStatus[JobStatusPending] = append(ms.byStatus[JobStatusPending], jobID)
		}
	}
}
