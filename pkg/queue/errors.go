package queue

import "errors"

var (
	// ErrStorageNil is returned when a nil storage is provided.
	ErrStorageNil = errors.New("queue: storage cannot be nil")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload.
	ErrPayloadNil = errors.New("queue: payload cannot be nil")

	// ErrInvalidPriority is returned when priority is outside the 0-100 range.
	ErrInvalidPriority = errors.New("queue: priority must be between 0 and 100")

	// ErrHandlerNotFound is returned when no handler is registered for a job.
	ErrHandlerNotFound = errors.New("queue: no handler registered for job")

	// ErrNoHandlers is returned when a worker starts with no handlers.
	ErrNoHandlers = errors.New("queue: no job handlers registered")

	// ErrNoJobToClaim signals that no job is currently claimable. Workers
	// treat it as an idle tick, not a failure.
	ErrNoJobToClaim = errors.New("queue: no job to claim")

	// ErrJobNotFound is returned when a job ID is unknown to the storage.
	ErrJobNotFound = errors.New("queue: job not found")

	// ErrJobNotProcessing is returned when completing or failing a job that
	// is not currently claimed.
	ErrJobNotProcessing = errors.New("queue: job is not in processing state")
)
