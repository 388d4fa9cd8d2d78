package sse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Defaults match the OpenAI streaming wire format: frames like
// "data: {...}\n\n" terminated by a "data: [DONE]\n\n" sentinel.
const (
	DefaultPrefix    = "data:"
	DefaultDelimiter = "\n\n"
	DefaultSentinel  = "[DONE]"
)

// readChunkSize is the size of the transient buffer used for pulls from the
// underlying reader.
const readChunkSize = 4096

// ErrTruncatedStream is returned when the underlying stream ends while a
// non-empty frame fragment is still accumulated, i.e. the final frame never
// saw its terminating delimiter.
var ErrTruncatedStream = errors.New("sse: stream truncated mid-frame")

// MalformedFrameError reports a frame whose payload could not be decoded:
// either the frame is missing the required prefix, or (at the typed stream
// layer) its payload failed JSON decoding. It carries the offending frame so
// callers can log or inspect it.
type MalformedFrameError struct {
	Frame []byte
	Err   error
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("sse: malformed frame %q: %v", e.Frame, e.Err)
}

func (e *MalformedFrameError) Unwrap() error {
	return e.Err
}

var errMissingPrefix = errors.New("missing frame prefix")

// Decoder incrementally splits a byte stream into frames. It owns a private
// accumulation buffer holding bytes that have not yet formed a complete
// frame; the underlying reader is only pulled when no complete frame is
// buffered, so the decoder never reads ahead of the consumer by more than
// one transport chunk.
type Decoder struct {
	r     io.Reader
	buf   []byte
	chunk []byte

	prefix   []byte
	delim    []byte
	sentinel []byte
	failFast bool

	srcDone  bool
	finished bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithPrefix sets the frame prefix marker. An empty prefix disables prefix
// handling entirely: every delimiter-bounded record is emitted verbatim,
// which is the framing used for JSONL file content.
func WithPrefix(prefix string) Option {
	return func(d *Decoder) { d.prefix = []byte(prefix) }
}

// WithDelimiter sets the frame delimiter. OpenAI streaming responses use
// the default blank-line delimiter; single-newline framing ("\n") decodes
// JSONL content.
func WithDelimiter(delim string) Option {
	return func(d *Decoder) { d.delim = []byte(delim) }
}

// WithSentinel sets the terminal sentinel payload. An empty sentinel
// disables sentinel detection; the stream then only ends on physical EOF.
func WithSentinel(sentinel string) Option {
	return func(d *Decoder) { d.sentinel = []byte(sentinel) }
}

// WithFailFast makes the first malformed frame terminal: after returning a
// MalformedFrameError the decoder reports end-of-sequence forever. The
// default is to skip past the malformed frame and continue with the next.
func WithFailFast() Option {
	return func(d *Decoder) { d.failFast = true }
}

// NewDecoder wraps r, which delivers arbitrarily-chunked bytes. No reads
// happen until the first call to Next.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		r:        r,
		chunk:    make([]byte, readChunkSize),
		prefix:   []byte(DefaultPrefix),
		delim:    []byte(DefaultDelimiter),
		sentinel: []byte(DefaultSentinel),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next returns the payload of the next complete frame. It pulls from the
// underlying reader as needed, so it blocks until a frame is available, the
// stream ends, or the read fails.
//
// io.EOF signals normal end of sequence: the sentinel payload was seen, or
// the stream ended with nothing left in the buffer. Once Next has returned
// a terminal result every subsequent call returns io.EOF without touching
// the underlying reader.
//
// Errors are never retried or swallowed: a transport read failure is
// returned wrapped and ends the sequence; a stream that ends mid-frame
// yields ErrTruncatedStream; a frame without the required prefix yields a
// *MalformedFrameError (terminal only under WithFailFast).
func (d *Decoder) Next() ([]byte, error) {
	for {
		if d.finished {
			return nil, io.EOF
		}

		// Drain frames already buffered before pulling more bytes.
		for {
			i := bytes.Index(d.buf, d.delim)
			if i < 0 {
				break
			}
			frame := d.buf[:i:i]
			d.buf = d.buf[i+len(d.delim):]

			payload, skip, err := d.parseFrame(frame)
			if err != nil {
				if d.failFast {
					d.finished = true
				}
				return nil, err
			}
			if skip {
				continue
			}
			if len(d.sentinel) > 0 && bytes.Equal(payload, d.sentinel) {
				d.finished = true
				return nil, io.EOF
			}
			return payload, nil
		}

		if d.srcDone {
			d.finished = true
			if len(bytes.TrimRight(d.buf, "\r\n")) > 0 {
				n := len(d.buf)
				d.buf = nil
				return nil, fmt.Errorf("%w: %d trailing bytes without delimiter", ErrTruncatedStream, n)
			}
			return nil, io.EOF
		}

		n, err := d.r.Read(d.chunk)
		if n > 0 {
			d.buf = append(d.buf, d.chunk[:n]...)
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			// Scan whatever arrived with the EOF before concluding.
			d.srcDone = true
		default:
			d.finished = true
			return nil, fmt.Errorf("sse: read stream: %w", err)
		}
	}
}

// parseFrame extracts the payload from one delimiter-bounded frame. skip is
// true for frames that carry nothing to emit: keep-alive blank lines and
// SSE comment lines.
func (d *Decoder) parseFrame(frame []byte) (payload []byte, skip bool, err error) {
	frame = bytes.TrimRight(frame, "\r\n")
	if len(bytes.TrimSpace(frame)) == 0 {
		return nil, true, nil
	}
	if len(d.prefix) == 0 {
		return frame, false, nil
	}
	if frame[0] == ':' {
		return nil, true, nil
	}
	if !bytes.HasPrefix(frame, d.prefix) {
		return nil, false, &MalformedFrameError{Frame: frame, Err: errMissingPrefix}
	}
	return bytes.TrimSpace(frame[len(d.prefix):]), false, nil
}

// Finished reports whether the decoder has reached a terminal state, either
// through the sentinel, physical end-of-stream, or a fatal error.
func (d *Decoder) Finished() bool {
	return d.finished
}
