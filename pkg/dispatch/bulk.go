package dispatch

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/async"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Failure records why one recipient's delivery did not happen.
type Failure struct {
	RecipientID string
	Err         error
}

// BulkResult aggregates a bulk operation: exactly one entry per distinct
// recipient ID across the two lists, in no guaranteed order.
type BulkResult struct {
	Delivered []notification.Notification
	Failures  []Failure
}

// CreateBulk applies CreateAndDeliver's per-recipient logic independently for
// every ID. Each recipient's outcome is isolated: one recipient's validation
// or persistence error lands in the failure list and never aborts or rolls
// back a sibling's delivery. Recipients are processed in chunks of the
// configured size; chunking affects throughput only, never outcomes. There is
// no global cancellation — once started, every recipient's sub-operation runs
// to completion or failure.
func (d *Dispatcher) CreateBulk(ctx context.Context, recipientIDs []string, n notification.Notification) BulkResult {
	ids := dedupe(recipientIDs)

	result := BulkResult{
		Delivered: make([]notification.Notification, 0, len(ids)),
		Failures:  make([]Failure, 0),
	}

	for start := 0; start < len(ids); start += d.chunkSize {
		end := min(start+d.chunkSize, len(ids))
		chunk := ids[start:end]

		futures := make([]*async.Future[notification.Notification], len(chunk))
		for i, recipientID := range chunk {
			per := n
			per.RecipientID = recipientID
			per.ID = "" // each recipient gets its own record
			futures[i] = async.Async(ctx, per, d.CreateAndDeliver)
		}

		delivered, errs := async.WaitAllSettled(futures...)
		for i, err := range errs {
			if err != nil {
				result.Failures = append(result.Failures, Failure{RecipientID: chunk[i], Err: err})
				continue
			}
			result.Delivered = append(result.Delivered, delivered[i])
		}
	}

	d.log.InfoContext(ctx, "bulk delivery finished",
		logger.Component("dispatcher"),
		logger.Count(len(result.Delivered)),
		logger.Errors(collectErrs(result.Failures)...))

	return result
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func collectErrs(failures []Failure) []error {
	errs := make([]error, 0, len(failures))
	for _, f := range failures {
		errs = append(errs, f.Err)
	}
	return errs
}
