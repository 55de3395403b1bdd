package zai

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ValidationError reports an invalid or unrecognized generation option.
// It is returned before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid option %q: %s", e.Field, e.Reason)
}

// CapabilityError reports that the selected model cannot serve the request,
// e.g. image content sent to a text-only model. The request is rejected
// instead of silently dropping content.
type CapabilityError struct {
	Model      string
	Capability string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("model %q does not support %s", e.Model, e.Capability)
}

// AuthError is returned when the API responds with HTTP 401 or 403.
// It carries the vendor's response body but never the credential itself.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (HTTP %d): check the Z.AI API key", e.Status)
}

// RateLimitError is returned when the API responds with HTTP 429 (Too Many
// Requests). It carries an optional RetryAfter duration parsed from the
// Retry-After header. Retrying is the caller's decision.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("rate limited: %s", e.Body)
}

// ServerError is returned for HTTP 5xx responses. Potentially transient, but
// never auto-retried here.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Z.AI server error (HTTP %d): %s", e.Status, e.Body)
}

// RequestError is returned for any other 4xx response, including
// model-not-found. The vendor's error text is preserved verbatim.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("Z.AI API error (HTTP %d): %s", e.Status, e.Body)
}

// StreamError reports a malformed chunk in a streaming response. The stream
// is aborted rather than skipping the chunk.
type StreamError struct {
	Chunk string
	Err   error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("corrupt stream chunk %q: %v", e.Chunk, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ParseRetryAfter parses the Retry-After header value as either seconds
// (integer) or an HTTP-date (RFC 7231). Returns zero if unparseable or if
// the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		d := time.Until(t)
		if d > 0 {
			return d
		}
		return 0
	}
	return 0
}
