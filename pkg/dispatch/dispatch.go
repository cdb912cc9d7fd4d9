package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/decision"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/preference"
	"github.com/dmitrymomot/notifykit/pkg/presence"
	"github.com/dmitrymomot/notifykit/pkg/push"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/realtime"
	"github.com/dmitrymomot/notifykit/pkg/subscription"
)

// EventNotificationCreated names the realtime event emitted for each
// delivered notification.
const EventNotificationCreated = "notification.created"

// JobEnqueuer submits push delivery jobs to the work queue.
// Satisfied by *queue.Enqueuer.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, payload any, opts ...queue.EnqueueOption) error
}

// Family is a push provider family. Web subscriptions (endpoint + keys) and
// mobile subscriptions (opaque token) go to different backends.
type Family string

const (
	FamilyWeb    Family = "web"
	FamilyMobile Family = "mobile"
)

func familyOf(sub subscription.Subscription) Family {
	if sub.Device.IsMobile() {
		return FamilyMobile
	}
	return FamilyWeb
}

// Dispatcher orchestrates the side-effecting delivery of notifications:
// channel resolution against preferences, persistence, real-time emission for
// online recipients, and push submission with subscription health tracking.
type Dispatcher struct {
	notifications notification.Storage
	preferences   preference.Storage
	subscriptions subscription.Storage
	tracker       presence.Tracker
	emitter       realtime.Emitter
	enqueuer      JobEnqueuer
	providers     map[Family]push.Provider
	log           *slog.Logger
	chunkSize     int
	pushQueue     string
	now           func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPresence sets the presence tracker used to route real-time deliveries.
// Without it every recipient is treated as offline.
func WithPresence(t presence.Tracker) Option {
	return func(d *Dispatcher) { d.tracker = t }
}

// WithEmitter sets the real-time emitter.
func WithEmitter(e realtime.Emitter) Option {
	return func(d *Dispatcher) { d.emitter = e }
}

// WithEnqueuer routes push deliveries through the work queue. Without it
// push sends run synchronously against the configured providers.
func WithEnqueuer(e JobEnqueuer) Option {
	return func(d *Dispatcher) { d.enqueuer = e }
}

// WithProvider registers the push provider for a family.
func WithProvider(family Family, p push.Provider) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.providers[family] = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithChunkSize bounds bulk fan-out concurrency.
func WithChunkSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.chunkSize = n
		}
	}
}

// WithPushQueue sets the work-queue name for push jobs.
func WithPushQueue(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.pushQueue = name
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// New creates a Dispatcher over the three storage aggregates. Presence,
// realtime, and push collaborators are optional; channels without a
// configured path are skipped at delivery time.
func New(
	notifications notification.Storage,
	preferences preference.Storage,
	subscriptions subscription.Storage,
	opts ...Option,
) (*Dispatcher, error) {
	if notifications == nil {
		return nil, ErrNotificationStorageRequired
	}
	if preferences == nil {
		return nil, ErrPreferenceStorageRequired
	}
	if subscriptions == nil {
		return nil, ErrSubscriptionStorageRequired
	}

	d := &Dispatcher{
		notifications: notifications,
		preferences:   preferences,
		subscriptions: subscriptions,
		providers:     make(map[Family]push.Provider),
		log:           slog.Default(),
		chunkSize:     25,
		pushQueue:     "push",
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// CreateAndDeliver resolves channels for the recipient, validates and
// persists the notification, and triggers each eligible delivery path.
//
// The call fails only on validation, channel eligibility, or persistence
// errors. Downstream channel failures (a push provider rejecting an endpoint)
// are reconciled into subscription health asynchronously and never surface
// here.
func (d *Dispatcher) CreateAndDeliver(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	now := d.now()
	n = withDefaults(n, now)

	prefs, err := d.loadPreferences(ctx, n.RecipientID)
	if err != nil {
		return notification.Notification{}, err
	}

	eligible := eligibleChannels(n, prefs, now)
	if len(eligible) == 0 {
		return notification.Notification{}, ErrNoEligibleChannels
	}
	n.Channels = eligible

	if err := decision.Validate(n, now); err != nil {
		return notification.Notification{}, err
	}

	if err := d.notifications.Create(ctx, n); err != nil {
		return notification.Notification{}, fmt.Errorf("persist notification: %w", err)
	}

	for _, ch := range eligible {
		switch ch {
		case notification.ChannelInApp:
			// Persist-only channel; the stored record is the delivery.
		case notification.ChannelRealtime:
			d.deliverRealtime(ctx, n, now)
		case notification.ChannelPush:
			d.submitPush(ctx, n)
		}
	}

	return n, nil
}

// withDefaults fills the generated and defaulted fields of a new notification.
func withDefaults(n notification.Notification, now time.Time) notification.Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.Type == "" {
		n.Type = notification.TypeInfo
	}
	if n.Priority == "" {
		n.Priority = notification.PriorityNormal
	}
	return n
}

// loadPreferences treats a missing record as the defaults: all channels
// enabled, quiet hours off.
func (d *Dispatcher) loadPreferences(ctx context.Context, recipientID string) (preference.Preferences, error) {
	prefs, err := d.preferences.Get(ctx, recipientID)
	if err != nil {
		if errors.Is(err, preference.ErrNotFound) {
			return preference.Default(recipientID), nil
		}
		return preference.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

// eligibleChannels resolves the channel set and drops every channel the
// preference gate or quiet hours suppress at this instant.
func eligibleChannels(n notification.Notification, prefs preference.Preferences, now time.Time) []notification.Channel {
	resolved := decision.ResolveChannels(n, prefs)
	eligible := make([]notification.Channel, 0, len(resolved))
	for _, ch := range resolved {
		if decision.ShouldDeliver(n, prefs, ch, now) {
			eligible = append(eligible, ch)
		}
	}
	return eligible
}

// deliverRealtime emits the notification to the recipient's live connections
// when they are online. Offline recipients rely on the persisted in-app
// record; there is no queued replay.
func (d *Dispatcher) deliverRealtime(ctx context.Context, n notification.Notification, now time.Time) {
	if d.tracker == nil || d.emitter == nil {
		return
	}

	online, err := d.tracker.IsOnline(ctx, n.RecipientID)
	if err != nil {
		d.log.ErrorContext(ctx, "presence lookup failed",
			logger.RecipientID(n.RecipientID),
			logger.NotificationID(n.ID),
			logger.Error(err))
		return
	}
	if !online {
		return
	}

	ev := realtime.Event{Name: EventNotificationCreated, Data: n}
	if err := d.emitter.Emit(ctx, n.RecipientID, ev); err != nil {
		d.log.ErrorContext(ctx, "realtime emission failed",
			logger.RecipientID(n.RecipientID),
			logger.NotificationID(n.ID),
			logger.Error(err))
		return
	}

	if err := d.notifications.MarkDelivered(ctx, n.RecipientID, n.ID, now); err != nil {
		d.log.ErrorContext(ctx, "failed to mark notification delivered",
			logger.RecipientID(n.RecipientID),
			logger.NotificationID(n.ID),
			logger.Error(err))
	}
}

// submitPush hands the push delivery to the work queue, or sends inline when
// no enqueuer is configured.
func (d *Dispatcher) submitPush(ctx context.Context, n notification.Notification) {
	job := PushDeliveryJob{
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
	}

	if d.enqueuer != nil {
		err := d.enqueuer.Enqueue(ctx, job,
			queue.WithQueue(d.pushQueue),
			queue.WithPriority(queuePriority(n.Priority)),
		)
		if err != nil {
			d.log.ErrorContext(ctx, "failed to enqueue push delivery",
				logger.RecipientID(n.RecipientID),
				logger.NotificationID(n.ID),
				logger.Error(err))
		}
		return
	}

	if len(d.providers) == 0 {
		d.log.WarnContext(ctx, "push channel resolved but no push path configured",
			logger.RecipientID(n.RecipientID),
			logger.NotificationID(n.ID))
		return
	}

	if err := d.DeliverPush(ctx, job); err != nil {
		d.log.ErrorContext(ctx, "inline push delivery failed",
			logger.RecipientID(n.RecipientID),
			logger.NotificationID(n.ID),
			logger.Error(err))
	}
}

// queuePriority maps notification urgency onto work-queue priority so urgent
// pushes jump ahead of routine ones.
func queuePriority(p notification.Priority) queue.Priority {
	switch p {
	case notification.PriorityUrgent:
		return queue.PriorityMax
	case notification.PriorityHigh:
		return queue.PriorityHigh
	case notification.PriorityLow:
		return queue.PriorityLow
	default:
		return queue.PriorityMedium
	}
}
