package openai

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inercia/go-openai/pkg/sse"
)

type bodyRecorder struct {
	io.Reader
	closed bool
}

func (b *bodyRecorder) Close() error {
	b.closed = true
	return nil
}

type streamEvent struct {
	ID int `json:"id"`
}

func TestStream_Recv(t *testing.T) {
	body := &bodyRecorder{Reader: strings.NewReader(
		"data: {\"id\":1}\n\ndata: {\"id\":2}\n\ndata: [DONE]\n\n")}
	s := newEventStream[streamEvent](body, false)

	ev, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, 1, ev.ID)

	ev, err = s.Recv()
	require.NoError(t, err)
	assert.Equal(t, 2, ev.ID)

	_, err = s.Recv()
	assert.Equal(t, io.EOF, err)
	assert.True(t, body.closed, "sentinel should release the body")

	_, err = s.Recv()
	assert.Equal(t, io.EOF, err)
}

func TestStream_ErrorEnvelope(t *testing.T) {
	body := &bodyRecorder{Reader: strings.NewReader(
		"data: {\"id\":1}\n\ndata: {\"error\":{\"message\":\"quota exceeded\",\"type\":\"insufficient_quota\"}}\n\n")}
	s := newEventStream[streamEvent](body, false)

	_, err := s.Recv()
	require.NoError(t, err)

	_, err = s.Recv()
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "quota exceeded", apiErr.Message)
	assert.Equal(t, "insufficient_quota", apiErr.Type)
	assert.True(t, body.closed)
}

func TestStream_MalformedPayloadRecoverable(t *testing.T) {
	body := &bodyRecorder{Reader: strings.NewReader(
		"data: {\"id\":1}\n\ndata: not-json\n\ndata: {\"id\":2}\n\ndata: [DONE]\n\n")}
	s := newEventStream[streamEvent](body, false)

	ev, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, 1, ev.ID)

	_, err = s.Recv()
	var malformed *sse.MalformedFrameError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "not-json", string(malformed.Frame))

	ev, err = s.Recv()
	require.NoError(t, err)
	assert.Equal(t, 2, ev.ID)
}

func TestStream_MalformedPayloadFailFast(t *testing.T) {
	body := &bodyRecorder{Reader: strings.NewReader(
		"data: {\"id\":1}\n\ndata: not-json\n\ndata: {\"id\":2}\n\n")}
	s := newEventStream[streamEvent](body, true)

	_, err := s.Recv()
	require.NoError(t, err)

	_, err = s.Recv()
	var malformed *sse.MalformedFrameError
	require.ErrorAs(t, err, &malformed)
	assert.True(t, body.closed)

	_, err = s.Recv()
	assert.Equal(t, io.EOF, err)
}

func TestStream_TruncatedBody(t *testing.T) {
	body := &bodyRecorder{Reader: strings.NewReader("data: {\"id\":1}\n\ndata: {\"id")}
	s := newEventStream[streamEvent](body, false)

	_, err := s.Recv()
	require.NoError(t, err)

	_, err = s.Recv()
	assert.ErrorIs(t, err, sse.ErrTruncatedStream)
	assert.True(t, body.closed)
}

func TestStream_Close(t *testing.T) {
	body := &bodyRecorder{Reader: strings.NewReader("data: {\"id\":1}\n\ndata: {\"id\":2}\n\n")}
	s := newEventStream[streamEvent](body, false)

	_, err := s.Recv()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, body.closed)

	_, err = s.Recv()
	assert.Equal(t, io.EOF, err)

	// Double close is a no-op.
	require.NoError(t, s.Close())
}

func TestStream_JSONLines(t *testing.T) {
	type record struct {
		Prompt string `json:"prompt"`
	}
	body := &bodyRecorder{Reader: strings.NewReader(
		"{\"prompt\":\"a\"}\n{\"prompt\":\"b\"}\n")}
	s := newJSONLinesStream[record](body)

	rec, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Prompt)

	rec, err = s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "b", rec.Prompt)

	_, err = s.Recv()
	assert.Equal(t, io.EOF, err)
}
