package decision

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/preference"
)

// BatchThreshold is the pending-notification count above which the dispatcher
// should prefer a single summarizing delivery over individual pushes.
const BatchThreshold = 5

// Validate checks every data-model invariant of a notification and returns a
// ValidationErrors naming each violation. It never performs I/O; the expiry
// check compares against the supplied instant.
func Validate(n notification.Notification, now time.Time) error {
	var ve ValidationErrors

	if n.RecipientID == "" {
		ve = append(ve, FieldError{Field: "recipient_id", Message: "must not be empty"})
	}
	if n.Title == "" {
		ve = append(ve, FieldError{Field: "title", Message: "must not be empty"})
	} else if utf8.RuneCountInString(n.Title) > notification.MaxTitleLength {
		ve = append(ve, FieldError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", notification.MaxTitleLength)})
	}
	if n.Message == "" {
		ve = append(ve, FieldError{Field: "message", Message: "must not be empty"})
	} else if utf8.RuneCountInString(n.Message) > notification.MaxMessageLength {
		ve = append(ve, FieldError{Field: "message", Message: fmt.Sprintf("must be at most %d characters", notification.MaxMessageLength)})
	}
	if !n.Type.Valid() {
		ve = append(ve, FieldError{Field: "type", Message: fmt.Sprintf("unknown type %q", n.Type)})
	}
	if !n.Priority.Valid() {
		ve = append(ve, FieldError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", n.Priority)})
	}
	if len(n.Channels) == 0 {
		ve = append(ve, FieldError{Field: "channels", Message: "at least one channel is required"})
	}
	for _, ch := range n.Channels {
		if !ch.Valid() {
			ve = append(ve, FieldError{Field: "channels", Message: fmt.Sprintf("unknown channel %q", ch)})
		}
	}
	if len(n.Actions) > notification.MaxActions {
		ve = append(ve, FieldError{Field: "actions", Message: fmt.Sprintf("at most %d actions are allowed", notification.MaxActions)})
	}
	for i, a := range n.Actions {
		if a.Label == "" {
			ve = append(ve, FieldError{Field: fmt.Sprintf("actions[%d].label", i), Message: "must not be empty"})
		}
	}
	if n.ExpiresAt != nil && !n.ExpiresAt.After(now) {
		ve = append(ve, FieldError{Field: "expires_at", Message: "must be in the future"})
	}

	if len(ve) == 0 {
		return nil
	}
	return ve
}

// ShouldDeliver decides whether a specific channel should fire for the
// notification, given the recipient's preferences.
//
// Urgent notifications bypass quiet hours and defer only to the per-type,
// per-channel enablement flag. Everything else is suppressed outright while
// the recipient is inside their quiet-hours window.
func ShouldDeliver(n notification.Notification, prefs preference.Preferences, ch notification.Channel, now time.Time) bool {
	if !prefs.SettingsFor(n.Type).Enabled(ch) {
		return false
	}
	if n.Priority == notification.PriorityUrgent {
		return true
	}
	return !prefs.QuietHours.Contains(now)
}

// ResolveChannels determines the channel set for a notification. Explicit
// caller channels are used unmodified, with ChannelAll expanding to every
// concrete channel. Without explicit channels the set is derived from the
// per-type enablement flags; an empty derived set is a valid outcome that
// means "suppress all channels for this recipient".
func ResolveChannels(n notification.Notification, prefs preference.Preferences) []notification.Channel {
	if len(n.Channels) > 0 {
		return expandAll(n.Channels)
	}

	settings := prefs.SettingsFor(n.Type)
	channels := make([]notification.Channel, 0, 3)
	if settings.InApp {
		channels = append(channels, notification.ChannelInApp)
	}
	if settings.Push {
		channels = append(channels, notification.ChannelPush)
	}
	if settings.Realtime {
		channels = append(channels, notification.ChannelRealtime)
	}
	return channels
}

func expandAll(channels []notification.Channel) []notification.Channel {
	expanded := make([]notification.Channel, 0, len(channels))
	seen := make(map[notification.Channel]struct{}, 3)
	add := func(ch notification.Channel) {
		if _, ok := seen[ch]; ok {
			return
		}
		seen[ch] = struct{}{}
		expanded = append(expanded, ch)
	}
	for _, ch := range channels {
		if ch == notification.ChannelAll {
			add(notification.ChannelInApp)
			add(notification.ChannelPush)
			add(notification.ChannelRealtime)
			continue
		}
		add(ch)
	}
	return expanded
}

// SortByPriority returns a new slice sorted by descending priority weight,
// ties broken by descending creation instant (newest first). The sort is
// stable and the input is never mutated.
func SortByPriority(ns []notification.Notification) []notification.Notification {
	sorted := make([]notification.Notification, len(ns))
	copy(sorted, ns)

	sort.SliceStable(sorted, func(i, j int) bool {
		wi, wj := sorted[i].Priority.Weight(), sorted[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// FilterExpired returns a new slice without the notifications whose expiry
// is at or before the evaluation instant. The input is never mutated.
func FilterExpired(ns []notification.Notification, now time.Time) []notification.Notification {
	kept := make([]notification.Notification, 0, len(ns))
	for _, n := range ns {
		if n.IsExpired(now) {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// ShouldBatch reports whether the pending set is large enough that a single
// summarizing delivery is preferable to individual pushes. It is purely a
// volume heuristic; priority never affects batching.
func ShouldBatch(ns []notification.Notification) bool {
	return len(ns) > BatchThreshold
}

// Summarize produces a human-readable aggregate of the pending set, grouping
// counts by type in order of first occurrence, e.g.
// "7 new notifications: 4 info, 2 warning, 1 error".
func Summarize(ns []notification.Notification) string {
	if len(ns) == 0 {
		return "no new notifications"
	}
	if len(ns) == 1 {
		return fmt.Sprintf("1 new notification: %s", ns[0].Title)
	}

	order := make([]notification.Type, 0)
	counts := make(map[notification.Type]int)
	for _, n := range ns {
		if _, ok := counts[n.Type]; !ok {
			order = append(order, n.Type)
		}
		counts[n.Type]++
	}

	summary := fmt.Sprintf("%d new notifications: ", len(ns))
	for i, t := range order {
		if i > 0 {
			summary += ", "
		}
		summary += fmt.Sprintf("%d %s", counts[t], t)
	}
	return summary
}
