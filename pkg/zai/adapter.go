// Package zai is a connector for Z.AI's GLM chat-completion API.
//
// An Adapter binds one model variant to the request translator, the HTTP
// transport, and the response interpreter. Each call performs exactly one
// logical exchange; there is no retry or recovery logic at this layer, and
// every vendor failure propagates to the caller as a classified error with
// the original text preserved.
package zai

import (
	"context"
	"io"

	"github.com/divsmith/llm-zai/pkg/chats/chat"
	"github.com/divsmith/llm-zai/pkg/models"
	"github.com/divsmith/llm-zai/pkg/transport"
)

const (
	// DefaultBaseURL is the fixed Z.AI API endpoint (no trailing slash).
	DefaultBaseURL = "https://api.z.ai/api/paas/v4"

	completionsPath = "/chat/completions"
)

// Adapter sends conversations to one Z.AI model variant.
// It is safe for concurrent use; calls are independent and unordered
// relative to each other.
type Adapter struct {
	Variant models.Variant
	Client  *transport.Client
}

// New creates an Adapter for the given variant, authenticated with apiKey.
// Override Client.BaseURL or Client.HTTP afterwards for non-default
// endpoints or timeouts.
func New(v models.Variant, apiKey string) *Adapter {
	return &Adapter{
		Variant: v,
		Client:  transport.New(DefaultBaseURL, transport.Auth{Key: apiKey}, nil),
	}
}

// ForModel resolves a model ID or alias in the registry and returns an
// Adapter for it. Unknown names return *models.UnknownModelError.
func ForModel(name, apiKey string) (*Adapter, error) {
	v, err := models.Lookup(name)
	if err != nil {
		return nil, err
	}
	return New(v, apiKey), nil
}

// Complete sends the conversation and blocks until the reply arrives.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat, opts Options) (*Result, error) {
	req, err := a.buildRequest(c, opts, false)
	if err != nil {
		return nil, err
	}

	resp, err := a.Client.PostJSON(ctx, completionsPath, req)
	if err != nil {
		return nil, err
	}

	return interpret(resp)
}

// AsyncResult is the outcome of a non-blocking call.
type AsyncResult struct {
	Result *Result
	Err    error
}

// CompleteAsync issues the call without blocking and returns a channel that
// delivers the single outcome. Completions of independently issued calls
// interleave with no ordering guarantee. The channel is buffered, so an
// abandoned call never leaks its goroutine; cancel ctx to release the
// connection early.
func (a *Adapter) CompleteAsync(ctx context.Context, c *chat.Chat, opts Options) <-chan AsyncResult {
	ch := make(chan AsyncResult, 1)

	go func() {
		defer close(ch)
		res, err := a.Complete(ctx, c, opts)
		ch <- AsyncResult{Result: res, Err: err}
	}()

	return ch
}

// Stream sends the conversation and returns the reply as an incremental
// sequence of deltas. The caller must drain the stream to io.EOF or Close it;
// either releases the connection. Variants without streaming support are
// rejected before any HTTP call.
func (a *Adapter) Stream(ctx context.Context, c *chat.Chat, opts Options) (*Stream, error) {
	if !a.Variant.SupportsStreaming {
		return nil, &CapabilityError{Model: a.Variant.ID, Capability: "streaming"}
	}

	req, err := a.buildRequest(c, opts, true)
	if err != nil {
		return nil, err
	}

	resp, err := a.Client.PostStream(ctx, completionsPath, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, classifyStatus(resp.StatusCode, resp.Header, body)
	}

	return newStream(resp.Body), nil
}

// buildRequest validates options, translates the conversation, and applies
// the variant's defaults. Every failure here happens before the network.
func (a *Adapter) buildRequest(c *chat.Chat, opts Options, stream bool) (apiRequest, error) {
	if err := opts.Validate(); err != nil {
		return apiRequest{}, err
	}

	msgs, err := buildMessages(c.Messages(), a.Variant)
	if err != nil {
		return apiRequest{}, err
	}

	req := apiRequest{
		Model:       a.Variant.Upstream,
		Messages:    msgs,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		Stream:      stream,
	}

	if opts.MaxTokens != nil {
		req.MaxTokens = *opts.MaxTokens
	} else {
		req.MaxTokens = a.Variant.DefaultMaxTokens
	}

	return req, nil
}
