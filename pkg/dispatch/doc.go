// Package dispatch orchestrates notification delivery across the in-app,
// real-time, and push channels.
//
// The Dispatcher composes the storage aggregates with the presence tracker,
// the realtime emitter, the work queue, and the push providers:
//
//	d, err := dispatch.New(notifStore, prefStore, subStore,
//	    dispatch.WithPresence(tracker),
//	    dispatch.WithEmitter(hub),
//	    dispatch.WithEnqueuer(enqueuer),
//	    dispatch.WithProvider(dispatch.FamilyWeb, webpushProvider),
//	    dispatch.WithProvider(dispatch.FamilyMobile, fcmProvider),
//	)
//
// CreateAndDeliver resolves the channel set from the recipient's preferences
// and quiet hours, persists the notification, emits to live connections for
// online recipients, and submits push work to the queue. CreateBulk fans the
// same logic out over many recipients with per-recipient failure isolation:
// every recipient appears exactly once in either the delivered or the failure
// list, and no recipient's error touches a sibling.
//
// Push deliveries are processed by the handler returned from PushJobHandler,
// which groups a recipient's active subscriptions by provider family, sends
// one batch per family, and folds per-subscription results back into
// subscription health (success resets the counter, "endpoint gone"
// deactivates immediately, other errors count toward 3-strike deactivation).
// Provider errors stay at this boundary; they are never surfaced to the
// caller that created the notification.
package dispatch
