// Package upstream is the transport to the accounting backend. It is a
// thin layer: it attaches the bearer token, serializes bodies as JSON and
// maps non-2xx responses to typed errors. All resilience (the single
// refresh-and-retry on 401) lives with the callers.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is the fixed request timeout of the underlying HTTP
// client. There is no per-request cancellation beyond it and the passed
// context.
const DefaultTimeout = 30 * time.Second

// Client issues requests against the backend base URL.
type Client struct {
	base  *url.URL
	http  *http.Client
	token func() string
	log   zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token source. An empty return value means no
// Authorization header is attached.
func WithToken(fn func() string) Option {
	return func(c *Client) {
		c.token = fn
	}
}

// WithTimeout overrides the fixed request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a Client for the given base URL.
func New(base string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}

	c := &Client{
		base: parsed,
		http: &http.Client{Timeout: DefaultTimeout},
		log:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do performs a request. A non-nil body is serialized as JSON. When out is
// non-nil, the response body is decoded into it.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	target := c.base.JoinPath(path).String()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializing request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to backend failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading backend response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return &ProtocolError{Reason: "response is not JSON", Snippet: snippet(raw)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &ProtocolError{Reason: "malformed response body", Snippet: snippet(raw)}
	}

	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// List fetches a collection endpoint and decodes it into out, normalizing
// the backend's list envelope shapes.
func (c *Client) List(ctx context.Context, path string, out any) error {
	var raw json.RawMessage
	if err := c.Get(ctx, path, &raw); err != nil {
		return err
	}

	return DecodeList(raw, out)
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "json")
}

// errorMessage extracts the human-readable message from an error body. The
// backend uses "detail" for auth errors and "message" elsewhere.
func errorMessage(raw []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Message != "" {
			return body.Message
		}
	}

	return "the backend reported an error"
}
