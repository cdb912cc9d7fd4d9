// Package subscription models per-device push endpoints and the health state
// machine that governs whether an endpoint is still used.
//
// A subscription accrues consecutive provider failures; at three it is
// deactivated automatically. A provider success resets the counter, and a
// fresh subscribe after deactivation reactivates the record with a clean
// history. A provider-reported "endpoint gone" bypasses the counter and
// deactivates immediately. The dispatch package drives these transitions
// from per-subscription provider results.
//
// Subscriptions unused for StaleAfter (90 days) are considered stale and are
// removed by the external expiry sweep via Storage.DeleteExpired.
package subscription
