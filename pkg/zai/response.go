package zai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/divsmith/llm-zai/pkg/transport"
)

// Usage holds the token counts the vendor reported for one call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Total returns the sum of prompt and completion tokens.
func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// Result is a completed generation: the text plus token usage when the
// vendor reported it. A nil Usage means "not reported", which is distinct
// from zero counts.
type Result struct {
	Text  string
	Usage *Usage
}

// --- response wire types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   *apiUsage   `json:"usage"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	// Thinking-mode replies put their text here instead of content.
	ReasoningContent string `json:"reasoning_content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// interpret normalizes a completed exchange into a Result or one of the
// classified failures.
func interpret(resp *transport.Response) (*Result, error) {
	if !resp.OK() {
		return nil, classifyStatus(resp.Status, resp.Header, resp.Body)
	}

	var parsed apiResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty choices in response")
	}

	msg := parsed.Choices[0].Message
	text := msg.Content
	if text == "" {
		text = msg.ReasoningContent
	}

	result := &Result{Text: text}
	if parsed.Usage != nil {
		result.Usage = &Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
		}
	}

	return result, nil
}

// classifyStatus maps a non-2xx status onto the error taxonomy. The raw
// vendor body is preserved verbatim; operators debugging vendor-side issues
// need the original text.
func classifyStatus(status int, header http.Header, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Status: status, Body: string(body)}

	case status == http.StatusTooManyRequests:
		return &RateLimitError{
			RetryAfter: ParseRetryAfter(header.Get("Retry-After")),
			Body:       string(body),
		}

	case status >= 500:
		return &ServerError{Status: status, Body: string(body)}

	default:
		return &RequestError{Status: status, Body: string(body)}
	}
}
