// Error types and handling
package openai

// Error is the standardized error for both API failures (decoded from the
// OpenAI error envelope) and client-side failures (validation, request
// construction, transport). StatusCode is zero for errors that never
// reached the API.
type Error struct {
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
	Param      string `json:"param,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// errorEnvelope is the JSON envelope the API wraps errors in, on both plain
// responses and individual stream chunks.
type errorEnvelope struct {
	Error *Error `json:"error,omitempty"`
}
