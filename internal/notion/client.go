package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public Notion API endpoint
	DefaultBaseURL = "https://api.notion.com/v1"
	// APIVersion is the Notion-Version header sent with every request
	APIVersion = "2022-06-28"

	childrenPageSize = 100
)

// APIError is an error response from the Notion API
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Retryable reports whether the request may succeed if sent again
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Client talks to the Notion REST API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL points the client at a different API root
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// WithRetries sets how many times a rate-limited or failed request is retried
// and the initial backoff between attempts.
func WithRetries(n int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
		c.backoff = backoff
	}
}

// NewClient creates a new API client authenticated with token
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type listResponse[T any] struct {
	Results    []T    `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDatabase returns every page of the database whose checkbox property
// is ticked.
func (c *Client) QueryDatabase(ctx context.Context, databaseID, checkboxProperty string) ([]*Page, error) {
	var pages []*Page
	cursor := ""

	for {
		body := map[string]any{
			"filter": map[string]any{
				"property": checkboxProperty,
				"checkbox": map[string]any{"equals": true},
			},
		}
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		var resp listResponse[*Page]
		if err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", body, &resp); err != nil {
			return nil, fmt.Errorf("failed to query database %s: %w", databaseID, err)
		}

		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// GetPage retrieves a single page with its properties
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/pages/"+pageID, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", pageID, err)
	}
	return &page, nil
}

// ListChildren returns the direct children of a block or page, following
// pagination. Grandchildren are not fetched.
func (c *Client) ListChildren(ctx context.Context, blockID string) ([]*Block, error) {
	var blocks []*Block
	cursor := ""

	for {
		q := url.Values{}
		q.Set("page_size", strconv.Itoa(childrenPageSize))
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}

		var resp listResponse[*Block]
		if err := c.do(ctx, http.MethodGet, "/blocks/"+blockID+"/children?"+q.Encode(), nil, &resp); err != nil {
			return nil, err
		}

		blocks = append(blocks, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return blocks, nil
		}
		cursor = resp.NextCursor
	}
}

// MarkExported records the crawl time on the page and clears its
// request-publishing checkbox.
func (c *Client) MarkExported(ctx context.Context, pageID, crawledAtProperty, requestProperty string, now time.Time) error {
	body := map[string]any{
		"properties": map[string]any{
			crawledAtProperty: map[string]any{
				"date": map[string]any{"start": now.Format(time.RFC3339)},
			},
			requestProperty: map[string]any{
				"checkbox": false,
			},
		},
	}

	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, body, nil); err != nil {
		return fmt.Errorf("failed to update page %s: %w", pageID, err)
	}
	return nil
}

// do sends a request, retrying rate limits and server errors
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	delay := c.backoff
	for attempt := 0; ; attempt++ {
		wait, err := c.send(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Retryable() || attempt >= c.maxRetries {
			return err
		}

		if wait <= 0 {
			wait = delay
			delay *= 2
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// send performs one attempt. The returned duration is the server's
// Retry-After hint, if any.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) (time.Duration, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode

		return retryAfter(resp.Header), apiErr
	}

	if out == nil {
		return 0, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return 0, nil
}

// retryAfter reads a Retry-After header given in seconds. Missing,
// negative, or date-form values return 0.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
