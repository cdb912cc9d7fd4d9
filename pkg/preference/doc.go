// Package preference holds per-recipient notification preferences: per-type
// channel enablement, the quiet-hours window, and presentation flags.
//
// Records are created lazily: a recipient without a stored record behaves as
// if Default had been saved — every channel enabled for every type, quiet
// hours disabled. Storage.Get returns ErrNotFound in that case and callers
// fall back to Default.
//
// Quiet hours are a time-of-day window in the recipient's own timezone.
// QuietHours.Contains implements the wrap-around semantics: a 22:00-08:00
// window covers late evening and early morning. Whether quiet hours actually
// suppress a delivery is decided by the decision package, which bypasses the
// window for urgent notifications.
package preference
