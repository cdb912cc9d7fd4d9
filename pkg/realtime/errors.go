package realtime

import "errors"

var (
	// ErrHubClosed is returned when emitting on a closed hub.
	ErrHubClosed = errors.New("realtime: hub is closed")
)
