package parley

import (
	"context"
	"time"
)

// fallbackTitle is used for sessions that contain no user-authored
// message to derive a title from.
const fallbackTitle = "New conversation"

// Lister builds the conversation list shown in the history sidebar.
type Lister struct {
	store Store
	now   func() time.Time
}

// ListerOption configures a [Lister].
type ListerOption func(*Lister)

// WithClock overrides the time source. Useful for testing the createdAt
// fallback.
func WithClock(now func() time.Time) ListerOption {
	return func(l *Lister) { l.now = now }
}

// NewLister creates a Lister reading from the given store.
func NewLister(store Store, opts ...ListerOption) *Lister {
	l := &Lister{store: store, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

// List fetches the full record set and derives one summary per session,
// most recent session first. The list is rebuilt from scratch on every
// call; summaries are never mutated in place.
func (l *Lister) List(ctx context.Context) ([]Conversation, error) {
	records, err := l.store.Records(ctx)
	if err != nil {
		return nil, err
	}
	return l.summarize(records), nil
}

// summarize groups records by session in encountered order and derives a
// summary per group. Records arrive newest first, so the first session
// encountered is the most recently active and the first record seen for a
// group is its newest row.
func (l *Lister) summarize(records []Record) []Conversation {
	var order []string
	groups := make(map[string][]Record)
	newest := make(map[string]Record)

	for _, rec := range records {
		if _, seen := groups[rec.SessionID]; !seen {
			order = append(order, rec.SessionID)
			newest[rec.SessionID] = rec
		}
		groups[rec.SessionID] = append(groups[rec.SessionID], rec)
	}

	conversations := make([]Conversation, 0, len(order))
	for _, sessionID := range order {
		conversations = append(conversations, l.summarizeSession(sessionID, groups[sessionID], newest[sessionID]))
	}
	return conversations
}

// summarizeSession derives one summary from a session's records, given in
// descending ID order.
func (l *Lister) summarizeSession(sessionID string, descending []Record, newest Record) Conversation {
	// Restore chronological order before normalizing.
	ascending := make([]Record, len(descending))
	for i, rec := range descending {
		ascending[len(descending)-1-i] = rec
	}
	msgs := Normalize(ascending)

	title := fallbackTitle
	var lastResponse string
	var haveTitle, haveResponse bool
	for i := len(msgs) - 1; i >= 0 && !(haveTitle && haveResponse); i-- {
		switch msgs[i].Role {
		case RoleUser:
			if !haveTitle {
				title = GenerateTitle(msgs[i].Content)
				haveTitle = true
			}
		case RoleAssistant:
			if !haveResponse {
				lastResponse = msgs[i].Content
				haveResponse = true
			}
		}
	}

	createdAt := l.now()
	if newest.CreatedAt != nil {
		createdAt = *newest.CreatedAt
	}

	return Conversation{
		SessionID:    sessionID,
		Title:        title,
		CreatedAt:    createdAt,
		LastResponse: lastResponse,
	}
}
