// Package push defines the boundary to device push backends (Web Push, FCM
// and the like). The delivery engine only depends on the Provider interface
// and the typed failure classes here; concrete backend adapters live with
// the application that owns the credentials.
//
// The dispatch package groups a recipient's active subscriptions by device
// family, calls SendBatch once per family, and reconciles the per-
// subscription Results into subscription health: success resets the failure
// counter, ErrEndpointGone deactivates immediately, anything else counts
// toward the three-strike deactivation.
package push
