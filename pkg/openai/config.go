// Configuration types and response format specifications
package openai

import (
	"net/http"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the OpenAI REST API root used when no override is set.
const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultTimeout bounds a single request when no timeout is configured.
// Streaming responses are exempt: their lifetime is controlled by the
// request context instead.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for creating a Client
type Config struct {
	APIKey       string        `json:"api_key,omitempty"`
	Organization string        `json:"organization,omitempty"`
	BaseURL      string        `json:"base_url,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"`

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client `json:"-"`

	// StreamFailFast makes the first malformed frame in a streaming
	// response terminal. By default malformed frames are reported and
	// skipped, and the stream continues with the next frame.
	StreamFailFast bool `json:"stream_fail_fast,omitempty"`
}

// parseTimeoutFromEnv parses timeout from environment variable with fallback to default
func parseTimeoutFromEnv(envVar string, defaultTimeout time.Duration) time.Duration {
	if timeoutStr := os.Getenv(envVar); timeoutStr != "" {
		if timeoutSecs, err := strconv.Atoi(timeoutStr); err == nil && timeoutSecs > 0 {
			return time.Duration(timeoutSecs) * time.Second
		}
	}
	return defaultTimeout
}

// ConfigFromEnv builds a Config from the conventional environment
// variables: OPENAI_API_KEY, OPENAI_ORGANIZATION, OPENAI_BASE_URL and
// OPENAI_TIMEOUT (seconds).
func ConfigFromEnv() Config {
	return Config{
		APIKey:       os.Getenv("OPENAI_API_KEY"),
		Organization: os.Getenv("OPENAI_ORGANIZATION"),
		BaseURL:      os.Getenv("OPENAI_BASE_URL"),
		Timeout:      parseTimeoutFromEnv("OPENAI_TIMEOUT", DefaultTimeout),
	}
}

// ResponseFormat specifies the desired response format for structured outputs
type ResponseFormat struct {
	Type       ResponseFormatType `json:"type"`
	JSONSchema *JSONSchema        `json:"json_schema,omitempty"`
}

// ResponseFormatType defines the type of response format
type ResponseFormatType string

const (
	// ResponseFormatText indicates plain text response (default)
	ResponseFormatText ResponseFormatType = "text"
	// ResponseFormatJSON indicates JSON object response without strict schema
	ResponseFormatJSON ResponseFormatType = "json_object"
	// ResponseFormatJSONSchema indicates JSON response with strict schema validation
	ResponseFormatJSONSchema ResponseFormatType = "json_schema"
)

// JSONSchema represents a JSON Schema specification for structured outputs
type JSONSchema struct {
	Name        string      `json:"name,omitempty"`        // Schema name (required by the API)
	Description string      `json:"description,omitempty"` // Human-readable description
	Schema      interface{} `json:"schema"`                // The actual JSON Schema object
	Strict      *bool       `json:"strict,omitempty"`      // Enable strict validation
}
