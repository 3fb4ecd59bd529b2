// Package supabase implements [parley.Store] against a Supabase
// PostgREST endpoint.
//
// The history table holds one row per stored turn: a monotonic id, a
// session_id partition key, an opaque JSON message payload, and optional
// created_at and visible columns. Only the two read queries the client
// issues are supported; writes belong to the remote pipeline.
package supabase

import (
	"encoding/json"
	"time"
)

const (
	// DefaultTable is the history table written by the remote pipeline.
	DefaultTable = "n8n_chat_histories"

	restPath = "/rest/v1/"
)

// apiRow is the JSON representation of one history table row.
type apiRow struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
	CreatedAt *time.Time      `json:"created_at"`
	Visible   *bool           `json:"visible"`
}
