// Package queue provides background job processing for notification
// delivery. The dispatcher enqueues push delivery jobs so that a slow or
// unavailable provider never blocks the request path; workers poll the
// storage, claim jobs with a lock, and route them to typed handlers.
//
// Enqueue a payload and register a handler for its type:
//
//	enqueuer, _ := queue.NewEnqueuer(storage)
//	_ = enqueuer.Enqueue(ctx, PushDeliveryJob{NotificationID: id})
//
//	worker, _ := queue.NewWorker(storage, queue.WithMaxConcurrentJobs(10))
//	_ = worker.RegisterHandler(queue.NewJobHandler(handlePushDelivery))
//	_ = worker.Start(ctx)
//
// Failed jobs are retried with backoff up to their MaxAttempts, then left in
// the failed status for inspection. Claim locks expire automatically, so a
// crashed worker's jobs become claimable again.
package queue
