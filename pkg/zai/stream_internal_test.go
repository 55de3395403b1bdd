package zai

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is a stream body that records whether it was closed, standing in
// for the network connection.
type fakeConn struct {
	io.Reader
	closed bool
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func sseBody(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func chunkLine(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}`
}

func TestStream_RecvInOrder(t *testing.T) {
	conn := &fakeConn{Reader: strings.NewReader(sseBody(
		chunkLine("Hel"),
		"",
		chunkLine("lo"),
		"",
		"data: [DONE]",
	))}

	s := newStream(conn)

	d, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "Hel", d.Content)

	d, err = s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "lo", d.Content)

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, conn.closed, "connection released at end of stream")
}

func TestStream_FinalUsageChunk(t *testing.T) {
	conn := &fakeConn{Reader: strings.NewReader(sseBody(
		chunkLine("hi"),
		`data: {"choices":[],"usage":{"prompt_tokens":5,"completion_tokens":2}}`,
		"data: [DONE]",
	))}

	s := newStream(conn)

	d, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "hi", d.Content)

	_, err = s.Recv()
	require.ErrorIs(t, err, io.EOF)

	usage := s.Usage()
	require.NotNil(t, usage)
	assert.Equal(t, 5, usage.PromptTokens)
	assert.Equal(t, 2, usage.CompletionTokens)
}

func TestStream_ReasoningDelta(t *testing.T) {
	conn := &fakeConn{Reader: strings.NewReader(sseBody(
		`data: {"choices":[{"delta":{"reasoning_content":"hmm"}}]}`,
		"data: [DONE]",
	))}

	s := newStream(conn)

	d, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "hmm", d.Reasoning)
	assert.Empty(t, d.Content)
}

func TestStream_MalformedChunkAborts(t *testing.T) {
	conn := &fakeConn{Reader: strings.NewReader(sseBody(
		chunkLine("good"),
		`data: {not valid json`,
		chunkLine("never seen"),
	))}

	s := newStream(conn)

	d, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "good", d.Content, "output before the corrupt chunk is kept")

	_, err = s.Recv()
	require.Error(t, err)

	var se *StreamError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "{not valid json", se.Chunk)
	assert.True(t, conn.closed, "connection released on corruption")

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF, "stream is finished after the error")
}

func TestStream_EarlyCloseReleasesConnection(t *testing.T) {
	conn := &fakeConn{Reader: strings.NewReader(sseBody(
		chunkLine("first"),
		chunkLine("second"),
		chunkLine("third"),
		"data: [DONE]",
	))}

	s := newStream(conn)

	d, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "first", d.Content)

	require.NoError(t, s.Close())
	assert.True(t, conn.closed)

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)

	// Idempotent.
	assert.NoError(t, s.Close())
}

func TestStream_SkipsKeepAlivesAndEmptyDeltas(t *testing.T) {
	conn := &fakeConn{Reader: strings.NewReader(sseBody(
		": keep-alive",
		"event: message",
		`data: {"choices":[{"delta":{"role":"assistant"}}]}`,
		chunkLine("text"),
		"data: [DONE]",
	))}

	s := newStream(conn)

	d, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "text", d.Content)
}

func TestStream_EOFWithoutDone(t *testing.T) {
	conn := &fakeConn{Reader: strings.NewReader(sseBody(chunkLine("tail")))}

	s := newStream(conn)

	d, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "tail", d.Content)

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, conn.closed)
}
