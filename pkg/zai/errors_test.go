package zai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRetryAfter_Seconds(t *testing.T) {
	assert.Equal(t, 30*time.Second, ParseRetryAfter("30"))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("0"))
}

func TestParseRetryAfter_HTTPDate(t *testing.T) {
	future := time.Now().Add(90 * time.Second).UTC().Format(time.RFC1123)
	d := ParseRetryAfter(future)
	assert.Greater(t, d, 60*time.Second)
	assert.LessOrEqual(t, d, 90*time.Second)
}

func TestParseRetryAfter_PastDate(t *testing.T) {
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC1123)
	assert.Equal(t, time.Duration(0), ParseRetryAfter(past))
}

func TestParseRetryAfter_Garbage(t *testing.T) {
	assert.Equal(t, time.Duration(0), ParseRetryAfter("soon"))
	assert.Equal(t, time.Duration(0), ParseRetryAfter(""))
}

func TestRateLimitError_Message(t *testing.T) {
	e := &RateLimitError{RetryAfter: 30 * time.Second, Body: "too fast"}
	assert.Contains(t, e.Error(), "30s")
	assert.Contains(t, e.Error(), "too fast")

	e = &RateLimitError{Body: "too fast"}
	assert.NotContains(t, e.Error(), "retry after")
}

func TestAuthError_DoesNotEchoBody(t *testing.T) {
	e := &AuthError{Status: 401, Body: `{"error":"bad token sk-leaked"}`}
	assert.NotContains(t, e.Error(), "sk-leaked", "auth errors keep the body out of the message")
}
