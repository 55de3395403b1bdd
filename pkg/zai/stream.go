package zai

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/divsmith/llm-zai/pkg/transport"
)

// Delta is one increment of a streaming response.
type Delta struct {
	// Content is the text delta for this chunk.
	Content string

	// Reasoning is the thinking-mode delta, populated when the vendor
	// streams reasoning_content instead of content.
	Reasoning string
}

// streamChunk is the wire shape of one SSE data payload.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *apiUsage `json:"usage"`
}

// Stream is a finite, non-restartable sequence of response deltas. It is not
// safe for concurrent use. Close releases the underlying connection and is
// safe to call at any point, including mid-stream; deltas already received
// stay valid.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	usage     *Usage
	done      bool
	closeOnce sync.Once
	closeErr  error
}

func newStream(body io.ReadCloser) *Stream {
	sc := bufio.NewScanner(body)
	// Chunks carrying base64 reasoning payloads can exceed the default
	// 64KiB token limit.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Stream{body: body, scanner: sc}
}

// Recv returns the next delta. It returns io.EOF when the vendor signals
// end-of-stream, and a *StreamError when a chunk cannot be parsed. Once an
// error or io.EOF is returned, every subsequent call returns io.EOF.
func (s *Stream) Recv() (Delta, error) {
	if s.done {
		return Delta{}, io.EOF
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue // keep-alive or comment line
		}

		payload, found := strings.CutPrefix(line, "data:")
		if !found {
			continue // non-data SSE field (event:, id:, ...)
		}
		payload = strings.TrimSpace(payload)

		if payload == "[DONE]" {
			return Delta{}, s.finish(nil)
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return Delta{}, s.finish(&StreamError{Chunk: payload, Err: err})
		}

		if chunk.Usage != nil {
			s.usage = &Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
			}
		}

		// The final usage-only chunk has no choices; keep reading.
		if len(chunk.Choices) == 0 {
			continue
		}

		d := chunk.Choices[0].Delta
		if d.Content == "" && d.ReasoningContent == "" {
			continue // role-announcement or empty delta
		}

		return Delta{Content: d.Content, Reasoning: d.ReasoningContent}, nil
	}

	if err := s.scanner.Err(); err != nil {
		return Delta{}, s.finish(transport.Classify(err))
	}

	// Body ended without an explicit [DONE]; treat as end-of-stream.
	return Delta{}, s.finish(nil)
}

// finish closes the stream and returns err, or io.EOF for a clean end.
func (s *Stream) finish(err error) error {
	s.done = true
	_ = s.Close()

	if err != nil {
		return err
	}
	return io.EOF
}

// Usage returns the token counts from the stream's final chunk, or nil if
// the vendor did not report them (or the stream was abandoned early).
func (s *Stream) Usage() *Usage {
	return s.usage
}

// Close releases the underlying connection. It is idempotent and must be
// called when abandoning a stream before io.EOF.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.done = true
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
