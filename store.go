package parley

import "context"

// Store reads conversation history from the remote row store.
type Store interface {
	// Records returns all rows ordered by descending ID (newest first).
	Records(ctx context.Context) ([]Record, error)

	// SessionRecords returns the rows for one session ordered by
	// ascending ID, restricted to rows marked visible.
	SessionRecords(ctx context.Context, sessionID string) ([]Record, error)
}
