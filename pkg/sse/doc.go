// Package sse decodes server-sent-event style byte streams into discrete
// frame payloads.
//
// The decoder consumes an io.Reader delivering arbitrarily-chunked bytes
// (typically an HTTP response body) and yields one payload per well-formed
// frame, in arrival order. It handles partial delivery across chunk
// boundaries, the [DONE] end-of-stream sentinel used by OpenAI streaming
// endpoints, keep-alive blank lines and comment lines, and distinguishes a
// truncated stream from a normal finish.
//
// The same framing machinery decodes newline-delimited JSON (JSONL) file
// content by configuring an empty prefix and a single-newline delimiter.
//
// A Decoder is driven by a single consumer; it is not safe for concurrent
// use without external synchronization.
package sse
