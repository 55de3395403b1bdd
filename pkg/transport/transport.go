// Package transport performs the HTTP exchange with the Z.AI API.
//
// It owns request construction, the Authorization header, and timeouts.
// It deliberately does not interpret vendor payloads: non-2xx statuses are
// returned to the caller together with the raw body so the response
// interpreter can classify them. The only errors originating here are
// transport-level failures that carry no HTTP status at all.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single blocking exchange, matching the upstream
// plugin's 60 second budget.
const DefaultTimeout = 60 * time.Second

// TimeoutError reports that the configured connection/read deadline elapsed
// before the exchange completed.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ConnectError reports a transport-level failure with no HTTP status:
// DNS failure, refused connection, broken pipe, and the like.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Auth holds authentication settings for the API.
type Auth struct {
	Key    string // Bearer token value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// Response is a completed HTTP exchange: status, headers, and the raw body.
// Any status may appear here, including non-2xx; classification is the
// interpreter's job.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client issues requests against one fixed base endpoint. The zero value is
// not usable; create one with New.
type Client struct {
	BaseURL string            // API base URL (no trailing slash).
	Auth    Auth              // Authentication settings.
	HTTP    *http.Client      // HTTP client; falls back to a default with DefaultTimeout.
	Headers map[string]string // Extra headers applied to every request.
}

// New creates a Client for the given base URL and auth.
// A nil httpClient falls back to a default client with DefaultTimeout.
func New(baseURL string, auth Auth, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		BaseURL: baseURL,
		Auth:    auth,
		HTTP:    httpClient,
	}
}

// NewRequest builds an *http.Request with the base URL, auth, and custom
// headers already applied. Exactly one Authorization header is set.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	if c.Auth.Key != "" {
		header := c.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := c.Auth.Key
		if header == "Authorization" {
			scheme := c.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}

			value = scheme + " " + value
		} else if c.Auth.Scheme != "" {
			value = c.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// PostJSON marshals payload as JSON, sends a POST to the given path, and
// returns the completed exchange. The body is fully read before returning.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) (*Response, error) {
	resp, err := c.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(err)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}

// PostStream sends a POST to the given path and returns the live response
// without consuming the body, so the caller can read it incrementally.
// The caller owns resp.Body and must close it; closing releases the
// underlying connection even when consumption stops early.
func (c *Client) PostStream(ctx context.Context, path string, payload any) (*http.Response, error) {
	resp, err := c.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := c.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, Classify(err)
	}

	return resp, nil
}

// Classify maps a transport error with no HTTP status onto the error
// taxonomy. Caller-initiated cancellation passes through unchanged so it is
// not mistaken for a vendor-side failure. It is exported for callers that
// consume a streaming body directly and hit read errors mid-stream.
func Classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Err: err}
	}

	return &ConnectError{Err: err}
}
