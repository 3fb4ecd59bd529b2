package parley

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrEmptyMessage indicates a send was attempted with no content.
	ErrEmptyMessage = errors.New("message is empty")
)

// TransportError indicates the remote endpoint answered with a non-success
// HTTP status. It is terminal for the operation; nothing retries it.
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: HTTP %d", e.StatusCode)
}
