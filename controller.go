package parley

import (
	"fmt"
	"strings"
)

// Controller owns the state of the current conversation: session
// identity, transcript, loading flag, and display title. It is built for
// a single-threaded event loop: each operation is split into a Begin
// phase that applies optimistic state and captures a request token, and a
// Finish phase that applies the remote result. Only the mutating phases
// touch state, so no locking is needed; the network round trip between
// them runs wherever the caller likes.
//
// Last user intent wins: every Begin (and NewChat) advances the token,
// and a Finish whose operation carries a stale token is discarded
// silently. A late-arriving result can therefore never overwrite state
// established by a newer operation.
type Controller struct {
	sessionID string
	messages  []Message
	title     string
	loading   bool
	token     uint64

	// onReset, when set, is signalled by NewChat so the history list
	// can refresh itself. The controller never mutates the list.
	onReset func()
}

// ControllerOption configures a [Controller].
type ControllerOption func(*Controller)

// WithResetHook sets a callback invoked whenever NewChat resets the
// conversation state.
func WithResetHook(fn func()) ControllerOption {
	return func(c *Controller) { c.onReset = fn }
}

// NewController creates a Controller with no active session.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SessionID returns the current session identity, or "" when no
// conversation has been started.
func (c *Controller) SessionID() string { return c.sessionID }

// Title returns the current display title.
func (c *Controller) Title() string { return c.title }

// Loading reports whether an operation is in flight.
func (c *Controller) Loading() bool { return c.loading }

// Messages returns a copy of the current transcript.
func (c *Controller) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// SendOp identifies one in-flight send. The caller performs the round
// trip with Request and hands the outcome back through FinishSend.
type SendOp struct {
	token uint64
	req   SendRequest
}

// Request returns the transport request for this operation.
func (op SendOp) Request() SendRequest { return op.req }

// BeginSend validates and stages a user message. The message is appended
// to the transcript immediately and the title updates from the sent
// content before the round trip completes. Empty or whitespace-only
// content is rejected with ErrEmptyMessage and no state changes.
func (c *Controller) BeginSend(content string) (SendOp, error) {
	if strings.TrimSpace(content) == "" {
		return SendOp{}, fmt.Errorf("send: %w", ErrEmptyMessage)
	}

	c.token++
	c.messages = append(c.messages, UserMessage(content))
	c.title = GenerateTitle(content)
	c.loading = true

	return SendOp{
		token: c.token,
		req:   SendRequest{Message: content, SessionID: c.sessionID},
	}, nil
}

// FinishSend applies the result of a send round trip. On success the
// assistant reply is appended and the reply's session identity is adopted
// when none was set. On failure the error is returned for the caller to
// surface; the optimistically appended user message stays in the
// transcript so the user's input remains visible.
//
// A result for a superseded operation is discarded without touching state.
func (c *Controller) FinishSend(op SendOp, reply Reply, sendErr error) error {
	if op.token != c.token {
		return nil
	}
	c.loading = false

	if sendErr != nil {
		return sendErr
	}

	if c.sessionID == "" {
		c.sessionID = reply.SessionID
	}
	c.messages = append(c.messages, AssistantMessage(reply.Content))
	return nil
}

// SelectOp identifies one in-flight conversation switch.
type SelectOp struct {
	token     uint64
	sessionID string
}

// SessionID returns the session being loaded.
func (op SelectOp) SessionID() string { return op.sessionID }

// BeginSelect switches to a stored conversation. Session identity and
// title apply immediately and the transcript clears while the records
// load; the caller fetches the session's visible records and hands them
// to FinishSelect.
func (c *Controller) BeginSelect(sessionID, title string) SelectOp {
	c.token++
	c.sessionID = sessionID
	c.title = title
	c.messages = nil
	c.loading = true

	return SelectOp{token: c.token, sessionID: sessionID}
}

// FinishSelect replaces the transcript with the normalized records. On
// fetch failure the error is returned and the transcript stays empty.
// Stale results are discarded.
func (c *Controller) FinishSelect(op SelectOp, records []Record, fetchErr error) error {
	if op.token != c.token {
		return nil
	}
	c.loading = false

	if fetchErr != nil {
		return fetchErr
	}

	c.messages = Normalize(records)
	return nil
}

// NewChat clears the session identity, transcript, and title, and
// invalidates any in-flight operation. The next send starts a fresh
// session. The reset hook, when set, is signalled afterwards.
func (c *Controller) NewChat() {
	c.token++
	c.sessionID = ""
	c.messages = nil
	c.title = ""
	c.loading = false

	if c.onReset != nil {
		c.onReset()
	}
}
