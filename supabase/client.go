package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/parleyhq/parley"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ parley.Store = (*Client)(nil)

// Client implements [parley.Store] for a Supabase project.
type Client struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithTable overrides the history table name.
func WithTable(table string) Option {
	return func(c *Client) { c.table = table }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a new Supabase [Client] for the given project URL and
// anonymous API key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		table:      DefaultTable,
		httpClient: http.DefaultClient,
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Records returns all history rows, newest first.
func (c *Client) Records(ctx context.Context) ([]parley.Record, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "id.desc")
	return c.fetch(ctx, query)
}

// SessionRecords returns the visible rows for one session in
// chronological order.
func (c *Client) SessionRecords(ctx context.Context, sessionID string) ([]parley.Record, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("session_id", "eq."+sessionID)
	query.Set("visible", "eq.true")
	query.Set("order", "id.asc")
	return c.fetch(ctx, query)
}

func (c *Client) fetch(ctx context.Context, query url.Values) ([]parley.Record, error) {
	u := c.baseURL + restPath + c.table + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	req.Header.Set("Apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp)
	}

	var rows []apiRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("supabase: decode rows: %w", err)
	}
	c.logger.Debug().Int("rows", len(rows)).Str("table", c.table).Msg("fetched history rows")

	records := make([]parley.Record, len(rows))
	for i, row := range rows {
		records[i] = parley.Record{
			ID:        row.ID,
			SessionID: row.SessionID,
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
			Visible:   row.Visible,
		}
	}
	return records, nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("supabase: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
		return fmt.Errorf("supabase: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("supabase: HTTP %d: %s", resp.StatusCode, apiErr.Message)
}
