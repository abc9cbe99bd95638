// Package notion is a minimal client for the Notion REST API covering the two
// calls the lexicon needs: querying a database and updating a page.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shaharia-lab/lexicon/internal/build"
)

const (
	// DefaultBaseURL is the public Notion API root.
	DefaultBaseURL = "https://api.notion.com/v1"

	// APIVersion is sent as the Notion-Version header on every request.
	APIVersion = "2022-06-28"

	// VocabularyDatabaseID is the database holding the lexicon entries.
	VocabularyDatabaseID = "2932ab6ea09280f19ff4ecca6b020371"
)

// ErrMissingAPIKey is returned before any request is made when the client has no token.
var ErrMissingAPIKey = errors.New("NOTION_API_KEY not found in .env file")

// Response is a raw upstream reply. Body is left untouched so it can be relayed as is.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client talks to the Notion API with a bearer token.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets an overall timeout on each request. It applies to the
// client passed with WithHTTPClient too, which is copied rather than changed.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient returns a Client for apiKey. An empty key is allowed; every call
// then fails with ErrMissingAPIKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// QueryDatabase runs q against databaseID and returns the raw reply. A non-2xx
// status is not an error; callers inspect Response.OK.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q Query) (*Response, error) {
	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, databaseID)
	return c.do(ctx, http.MethodPost, url, q)
}

// UpdatePage patches the properties of pageID.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) error {
	url := fmt.Sprintf("%s/pages/%s", c.baseURL, pageID)
	resp, err := c.do(ctx, http.MethodPatch, url, map[string]any{"properties": props})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return DecodeAPIError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, payload any) (*Response, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", build.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Notion: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Notion response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Body:       data,
	}, nil
}

// DatabaseQuerier is the read side of the client.
type DatabaseQuerier interface {
	Configured() bool
	QueryDatabase(ctx context.Context, databaseID string, q Query) (*Response, error)
}

// PageUpdater writes page properties.
type PageUpdater interface {
	UpdatePage(ctx context.Context, pageID string, props Properties) error
}

var (
	_ DatabaseQuerier = (*Client)(nil)
	_ PageUpdater     = (*Client)(nil)
)
