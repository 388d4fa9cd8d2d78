// Typed streaming over the SSE decoder
package openai

import (
	"encoding/json"
	"io"

	"github.com/inercia/go-openai/pkg/sse"
)

// Stream is a pull-based sequence of decoded events of type T, backed by a
// streaming HTTP response body. Events arrive in wire order; Recv never
// reads ahead of the consumer.
//
// A Stream is driven by a single consumer. Close releases the underlying
// response body and may be called at any point to abandon the stream early;
// it is a no-op after the stream finished.
type Stream[T any] struct {
	dec  *sse.Decoder
	body io.Closer

	// errorEnvelope guards against the API injecting {"error": ...}
	// chunks into the stream. Disabled for JSONL file content, whose
	// records are user data.
	errorEnvelope bool
	failFast      bool
	closed        bool
}

func newEventStream[T any](body io.ReadCloser, failFast bool) *Stream[T] {
	opts := []sse.Option{}
	if failFast {
		opts = append(opts, sse.WithFailFast())
	}
	return &Stream[T]{
		dec:           sse.NewDecoder(body, opts...),
		body:          body,
		errorEnvelope: true,
		failFast:      failFast,
	}
}

func newJSONLinesStream[T any](body io.ReadCloser) *Stream[T] {
	return &Stream[T]{
		dec: sse.NewDecoder(body,
			sse.WithPrefix(""),
			sse.WithDelimiter("\n"),
			sse.WithSentinel("")),
		body: body,
	}
}

// Recv returns the next decoded event. io.EOF signals normal end of the
// sequence, either through the [DONE] sentinel or the stream closing
// cleanly. Any other error is one of: *Error (the API reported a failure
// mid-stream), *sse.MalformedFrameError (one frame failed JSON decoding;
// subsequent calls continue with the next frame), sse.ErrTruncatedStream,
// or a wrapped transport failure. Recv never retries.
func (s *Stream[T]) Recv() (*T, error) {
	if s.closed {
		return nil, io.EOF
	}

	payload, err := s.dec.Next()
	if err != nil {
		if err == io.EOF || s.dec.Finished() {
			s.release()
		}
		return nil, err
	}

	if s.errorEnvelope {
		var env errorEnvelope
		if json.Unmarshal(payload, &env) == nil && env.Error != nil {
			s.release()
			return nil, env.Error
		}
	}

	var event T
	if err := json.Unmarshal(payload, &event); err != nil {
		merr := &sse.MalformedFrameError{Frame: payload, Err: err}
		if s.failFast {
			s.release()
		}
		return nil, merr
	}
	return &event, nil
}

// Close abandons the stream and releases the underlying response body.
// After Close, Recv returns io.EOF.
func (s *Stream[T]) Close() error {
	return s.release()
}

func (s *Stream[T]) release() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
