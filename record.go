package parley

import (
	"encoding/json"
	"time"
)

// Record is one row from the remote history store, representing one turn
// or payload in a conversation. The Message payload is opaque at this
// level: several legacy shapes exist and only Normalize knows how to read
// them.
//
// Every record belongs to exactly one session. Within a session, records
// are ordered by ID, an externally assigned monotonic identifier; wall
// clock timestamps may be absent or unreliable and must not be used for
// ordering.
type Record struct {
	ID        int64
	SessionID string
	Message   json.RawMessage
	CreatedAt *time.Time
	Visible   *bool
}

// Conversation is a read-only summary of one stored session, rebuilt from
// the record set each time the history list refreshes. It is never mutated
// in place.
type Conversation struct {
	SessionID    string
	Title        string
	CreatedAt    time.Time
	LastResponse string
}
