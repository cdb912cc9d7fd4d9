package presence

import "context"

// Metadata is transient per-connection data (user agent, device label, etc.)
// released when the connection goes away.
type Metadata map[string]string

// Tracker maintains the live recipient-to-connection relation and answers
// online/offline routing queries. The in-memory implementation is a
// single-process authority; multi-process deployments use the Redis-backed
// one behind the same interface.
type Tracker interface {
	// Connect registers a connection under the recipient. Registering the
	// same connection ID again is idempotent. A recipient may hold multiple
	// simultaneous connections (multi-device).
	Connect(ctx context.Context, connectionID, recipientID string, meta Metadata) error

	// Disconnect removes the connection. When it was the recipient's last
	// connection the recipient transitions to offline and the connection's
	// metadata is released. Unknown connection IDs are a no-op.
	Disconnect(ctx context.Context, connectionID string) error

	// IsOnline reports whether the recipient has at least one live connection.
	IsOnline(ctx context.Context, recipientID string) (bool, error)

	// ConnectionsFor returns the recipient's live connection IDs.
	ConnectionsFor(ctx context.Context, recipientID string) ([]string, error)

	// OnlineRecipients returns every recipient with at least one connection.
	OnlineRecipients(ctx context.Context) ([]string, error)
}
