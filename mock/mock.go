// Package mock provides test doubles for parley interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/parleyhq/parley"
)

// Interface compliance checks.
var (
	_ parley.Transport = (*Transport)(nil)
	_ parley.Store     = (*Store)(nil)
)

// Transport is a test double for parley.Transport.
// Set SendFn before calling Send.
type Transport struct {
	SendFn func(ctx context.Context, req parley.SendRequest) (parley.Reply, error)
}

// Send delegates to SendFn.
func (t *Transport) Send(ctx context.Context, req parley.SendRequest) (parley.Reply, error) {
	return t.SendFn(ctx, req)
}

// Store is a test double for parley.Store.
// Set the function fields for the methods you need.
type Store struct {
	RecordsFn        func(ctx context.Context) ([]parley.Record, error)
	SessionRecordsFn func(ctx context.Context, sessionID string) ([]parley.Record, error)
}

// Records delegates to RecordsFn.
func (s *Store) Records(ctx context.Context) ([]parley.Record, error) {
	return s.RecordsFn(ctx)
}

// SessionRecords delegates to SessionRecordsFn.
func (s *Store) SessionRecords(ctx context.Context, sessionID string) ([]parley.Record, error) {
	return s.SessionRecordsFn(ctx, sessionID)
}
