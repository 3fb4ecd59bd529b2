package parley

import "context"

// SendRequest carries one user message and the session it belongs to.
// SessionID may be empty when no conversation has been started; the
// transport is then responsible for establishing a usable session
// identity before the request leaves the client.
type SendRequest struct {
	Message   string
	SessionID string
}

// Reply is the canonical result of a round trip to the remote assistant.
// SessionID is always non-empty: either the identity the request carried
// or one the transport generated for it.
type Reply struct {
	Content   string
	SessionID string
}

// Transport sends a user message to the remote assistant backend.
// Implementations must not retry internally; a failed round trip is
// terminal and surfaces to the caller. Cancellation and timeouts flow
// through ctx.
type Transport interface {
	Send(ctx context.Context, req SendRequest) (Reply, error)
}
