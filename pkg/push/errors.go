package push

import (
	"errors"
	"fmt"
)

var (
	// ErrEndpointGone signals that the backend reported the subscription
	// endpoint or token as permanently invalid. The subscription must be
	// deactivated immediately, bypassing the failure counter.
	ErrEndpointGone = errors.New("push endpoint gone")

	// ErrInvalidCredentials signals that the provider rejected our sender
	// credentials. This is an operator problem, not a subscription problem.
	ErrInvalidCredentials = errors.New("invalid push credentials")
)

// ProviderError wraps any other backend rejection. These count as transient
// against the subscription's consecutive-failure counter.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("push provider error: %s", e.Message)
	}
	return fmt.Sprintf("push provider error %s: %s", e.Code, e.Message)
}

// IsEndpointGone reports whether err indicates a permanently dead endpoint.
func IsEndpointGone(err error) bool {
	return errors.Is(err, ErrEndpointGone)
}

// IsInvalidCredentials reports whether err indicates rejected sender credentials.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
