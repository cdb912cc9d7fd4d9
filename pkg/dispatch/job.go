package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/async"
	"github.com/dmitrymomot/notifykit/pkg/decision"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/push"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/subscription"
)

// PushDeliveryJob is the work-queue payload for one notification's push
// delivery. The notification itself is re-read at processing time so the
// payload stays small and expired notifications are skipped.
type PushDeliveryJob struct {
	NotificationID string `json:"notification_id"`
	RecipientID    string `json:"recipient_id"`
}

// PushJobHandler returns the queue handler that processes PushDeliveryJob
// payloads. Register it on the worker that drains the push queue.
func (d *Dispatcher) PushJobHandler() queue.Handler {
	return queue.NewJobHandler(func(ctx context.Context, job PushDeliveryJob) error {
		return d.DeliverPush(ctx, job)
	})
}

// DeliverPush sends the notification to every active push subscription of
// the recipient, one batch per provider family, and reconciles the
// per-subscription results into subscription health.
//
// The returned error covers only failures that prevented the delivery from
// being attempted (missing notification, provider batch rejection); those are
// retried by the work queue. Per-subscription outcomes never fail the job.
func (d *Dispatcher) DeliverPush(ctx context.Context, job PushDeliveryJob) error {
	now := d.now()

	n, err := d.notifications.Get(ctx, job.RecipientID, job.NotificationID)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			// Deleted between enqueue and processing; nothing to deliver.
			return nil
		}
		return fmt.Errorf("load notification: %w", err)
	}
	if n.IsExpired(now) {
		d.log.InfoContext(ctx, "skipping push for expired notification",
			logger.NotificationID(n.ID),
			logger.RecipientID(n.RecipientID))
		return nil
	}

	subs, err := d.subscriptions.ListByRecipient(ctx, job.RecipientID, subscription.ListFilter{ActiveOnly: true})
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := d.buildPayload(ctx, n)
	if err != nil {
		return err
	}

	// One batch send per provider family, attempted concurrently.
	byFamily := make(map[Family][]subscription.Subscription)
	for _, sub := range subs {
		byFamily[familyOf(sub)] = append(byFamily[familyOf(sub)], sub)
	}

	type batchOutcome struct {
		results []push.Result
		err     error
	}

	futures := make([]*async.Future[batchOutcome], 0, len(byFamily))
	for family, familySubs := range byFamily {
		provider, ok := d.providers[family]
		if !ok {
			d.log.WarnContext(ctx, "no push provider configured for family",
				logger.Component("dispatcher"),
				logger.NotificationID(n.ID),
				logger.Channel(string(family)))
			continue
		}
		futures = append(futures, async.Async(ctx, familySubs,
			func(ctx context.Context, batch []subscription.Subscription) (batchOutcome, error) {
				results, err := provider.SendBatch(ctx, batch, payload)
				return batchOutcome{results: results, err: err}, nil
			}))
	}
	if len(futures) == 0 {
		return nil
	}

	outcomes, _ := async.WaitAllSettled(futures...)

	subsByID := make(map[string]subscription.Subscription, len(subs))
	for _, sub := range subs {
		subsByID[sub.ID] = sub
	}

	var delivered, attempted int
	var batchErr error
	for _, outcome := range outcomes {
		if outcome.err != nil {
			// The batch never reached the provider; let the queue retry.
			batchErr = outcome.err
			continue
		}
		for _, res := range outcome.results {
			attempted++
			if res.Err == nil {
				delivered++
			}
			d.reconcileResult(ctx, subsByID[res.SubscriptionID], res)
		}
	}

	d.finishDelivery(ctx, n, delivered, attempted)

	if batchErr != nil {
		return fmt.Errorf("push batch send: %w", batchErr)
	}
	return nil
}

// buildPayload prefers a single summarizing push over a flurry of individual
// ones when the recipient's pending set has grown past the batch threshold.
func (d *Dispatcher) buildPayload(ctx context.Context, n notification.Notification) (push.Payload, error) {
	unread, err := d.notifications.ListUnread(ctx, n.RecipientID, decision.BatchThreshold*10)
	if err != nil {
		return push.Payload{}, fmt.Errorf("count pending notifications: %w", err)
	}

	if decision.ShouldBatch(unread) {
		return push.Payload{
			NotificationID: n.ID,
			Title:          "New notifications",
			Message:        decision.Summarize(unread),
			Tag:            "summary:" + n.RecipientID,
			Priority:       string(n.Priority),
		}, nil
	}

	return push.Payload{
		NotificationID: n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Icon:           n.Icon,
		Image:          n.Image,
		Priority:       string(n.Priority),
		Data:           n.Data,
	}, nil
}

// reconcileResult folds one provider result into subscription health.
// Success resets the failure counter and touches last-used; "endpoint gone"
// deactivates immediately; any other error counts toward the 3-strike
// deactivation. Each change goes through the storage's atomic record
// operations, so two deliveries reconciling the same subscription never lose
// a counter increment, and one record's persistence failure never blocks
// another's.
func (d *Dispatcher) reconcileResult(ctx context.Context, sub subscription.Subscription, res push.Result) {
	if sub.ID == "" {
		d.log.WarnContext(ctx, "provider reported result for unknown subscription",
			logger.SubscriptionID(res.SubscriptionID))
		return
	}

	now := d.now()
	switch {
	case res.Err == nil:
		if err := d.subscriptions.RecordSuccess(ctx, sub.ID, now); err != nil {
			d.log.ErrorContext(ctx, "failed to persist subscription health",
				logger.SubscriptionID(sub.ID),
				logger.Error(err))
		}
	case push.IsEndpointGone(res.Err):
		if err := d.subscriptions.Deactivate(ctx, sub.ID, now, res.Err.Error()); err != nil {
			d.log.ErrorContext(ctx, "failed to persist subscription health",
				logger.SubscriptionID(sub.ID),
				logger.Error(err))
			return
		}
		d.log.InfoContext(ctx, "subscription endpoint gone, deactivated",
			logger.SubscriptionID(sub.ID),
			logger.RecipientID(sub.RecipientID))
	default:
		updated, err := d.subscriptions.RecordFailure(ctx, sub.ID, now, res.Err.Error())
		if err != nil {
			d.log.ErrorContext(ctx, "failed to persist subscription health",
				logger.SubscriptionID(sub.ID),
				logger.Error(err))
			return
		}
		if !updated.Active {
			d.log.InfoContext(ctx, "subscription deactivated after consecutive failures",
				logger.SubscriptionID(sub.ID),
				logger.RecipientID(sub.RecipientID),
				logger.Count(updated.FailureCount))
		}
	}
}

// finishDelivery records the notification-level outcome: delivered when at
// least one push landed, failed when every attempt was rejected.
func (d *Dispatcher) finishDelivery(ctx context.Context, n notification.Notification, delivered, attempted int) {
	now := d.now()

	switch {
	case delivered > 0:
		if err := d.notifications.MarkDelivered(ctx, n.RecipientID, n.ID, now); err != nil {
			d.log.ErrorContext(ctx, "failed to mark notification delivered",
				logger.NotificationID(n.ID),
				logger.Error(err))
		}
	case attempted > 0:
		if err := d.notifications.MarkFailed(ctx, n.RecipientID, n.ID, now, "all push deliveries rejected"); err != nil {
			d.log.ErrorContext(ctx, "failed to mark notification failed",
				logger.NotificationID(n.ID),
				logger.Error(err))
		}
	}
}
