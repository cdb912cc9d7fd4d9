package presence

import "errors"

var (
	// ErrInvalidArgument is returned when a connection or recipient ID is empty.
	ErrInvalidArgument = errors.New("connection ID and recipient ID are required")
)
