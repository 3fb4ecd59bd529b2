package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/parleyhq/parley"
	"github.com/parleyhq/parley/ident"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ parley.Transport = (*Client)(nil)

// Client implements [parley.Transport] against a webhook endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	gen        ident.Generator
	legacy     bool
	logger     zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Useful for imposing a
// timeout; the webhook itself specifies none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithGenerator sets the session identifier source.
func WithGenerator(gen ident.Generator) Option {
	return func(c *Client) { c.gen = gen }
}

// WithLegacyFormat switches the request body to the {message, sessionId}
// wire format of older deployments.
func WithLegacyFormat() Option {
	return func(c *Client) { c.legacy = true }
}

// WithLogger sets the client logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a new webhook [Client] for the given endpoint URL.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		gen:        ident.New(),
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Send posts one user message to the webhook and parses the reply.
//
// A request without a session identity gets a locally generated one
// before it leaves the client, so the caller always has a usable
// partition key for follow-up operations. The returned Reply carries the
// identity that was actually sent; the response is not trusted to
// override it.
func (c *Client) Send(ctx context.Context, req parley.SendRequest) (parley.Reply, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.gen.NewID()
		c.logger.Debug().Str("session_id", sessionID).Msg("generated session identifier")
	}

	body, err := c.buildRequestBody(req.Message, sessionID)
	if err != nil {
		return parley.Reply{}, fmt.Errorf("webhook: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return parley.Reply{}, fmt.Errorf("webhook: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return parley.Reply{}, fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().Int("status", resp.StatusCode).Msg("webhook request failed")
		return parley.Reply{}, fmt.Errorf("webhook: %w", &parley.TransportError{StatusCode: resp.StatusCode})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return parley.Reply{}, fmt.Errorf("webhook: read response: %w", err)
	}

	return parley.Reply{
		Content:   parseReply(data),
		SessionID: sessionID,
	}, nil
}

func (c *Client) buildRequestBody(message, sessionID string) ([]byte, error) {
	if c.legacy {
		return json.Marshal(legacyRequest{Message: message, SessionID: sessionID})
	}
	return json.Marshal(apiRequest{SessionID: sessionID, Action: sendAction, ChatInput: message})
}

// parseReply extracts the reply text from the response body, unwrapping
// a one-element array transparently. Anything unreadable maps to the
// fallback reply.
func parseReply(data []byte) string {
	raw := json.RawMessage(data)

	var wrapped []json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if len(wrapped) == 0 {
			return fallbackReply
		}
		raw = wrapped[0]
	}

	var body apiResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallbackReply
	}
	if s, ok := asString(body.Output); ok {
		return s
	}
	if s, ok := asString(body.Response); ok {
		return s
	}
	return fallbackReply
}

func asString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
