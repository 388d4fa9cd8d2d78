// Chat completions: given a conversation, the model returns a chat
// completion response, optionally streamed chunk by chunk.
package openai

import (
	"context"
	"fmt"
)

// Role defines the sender of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single message in a chat conversation
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a message with the system role
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// UserMessage creates a message with the user role
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// AssistantMessage creates a message with the assistant role
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// ChatRequest is a request to the chat completions endpoint.
// Only Model and Messages are required.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`

	// MaxTokens caps the number of generated tokens; input plus output is
	// bounded by the model's context length.
	MaxTokens int `json:"max_tokens,omitempty"`
	// Temperature is the sampling temperature, between 0 and 2. Alter this
	// or TopP, not both.
	Temperature *float64 `json:"temperature,omitempty"`
	// TopP is the nucleus sampling probability mass.
	TopP *float64 `json:"top_p,omitempty"`
	// N is how many completion choices to generate per input.
	N int `json:"n,omitempty"`
	// Stop holds up to 4 sequences where generation stops.
	Stop []string `json:"stop,omitempty"`
	// PresencePenalty is between -2.0 and 2.0.
	PresencePenalty *float64 `json:"presence_penalty,omitempty"`
	// FrequencyPenalty is between -2.0 and 2.0.
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	// LogitBias maps token IDs to a bias between -100 and 100.
	LogitBias map[string]float64 `json:"logit_bias,omitempty"`
	// User is an end-user identifier for abuse monitoring.
	User string `json:"user,omitempty"`
	// ResponseFormat requests structured output, see schema.go.
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	Stream bool `json:"stream,omitempty"`
}

const maxStopSequences = 4

func (r *ChatRequest) validate() error {
	if err := checkRange("temperature", r.Temperature, 0, 2); err != nil {
		return err
	}
	if err := checkRange("presence_penalty", r.PresencePenalty, -2, 2); err != nil {
		return err
	}
	if err := checkRange("frequency_penalty", r.FrequencyPenalty, -2, 2); err != nil {
		return err
	}
	if len(r.Stop) > maxStopSequences {
		return &Error{
			Code:    "invalid_stop",
			Message: fmt.Sprintf("At most %d stop sequences are allowed, got %d", maxStopSequences, len(r.Stop)),
			Type:    "invalid_request_error",
		}
	}
	return nil
}

// checkRange validates an optional numeric parameter against its inclusive
// API-documented range.
func checkRange(name string, v *float64, min, max float64) error {
	if v == nil || (*v >= min && *v <= max) {
		return nil
	}
	return &Error{
		Code:    "invalid_" + name,
		Message: fmt.Sprintf("%s out of range [%v, %v]: %v", name, min, max, *v),
		Type:    "invalid_request_error",
	}
}

// ChatChoice is one generated chat completion
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// ChatCompletion is the response to a chat completion request
type ChatCompletion struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// First returns the first choice, or nil when the response carries none
func (c *ChatCompletion) First() *ChatChoice {
	if len(c.Choices) == 0 {
		return nil
	}
	return &c.Choices[0]
}

// ChatMessageDelta is the incremental message content in a streamed chunk.
// The first delta of a stream carries the role, subsequent deltas carry
// content fragments.
type ChatMessageDelta struct {
	Role    Role   `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChatChunkChoice is one choice inside a streamed chunk. FinishReason is
// nil until the final chunk of that choice.
type ChatChunkChoice struct {
	Index        int              `json:"index"`
	Delta        ChatMessageDelta `json:"delta"`
	FinishReason *string          `json:"finish_reason"`
}

// ChatCompletionChunk is a single decoded event of a streaming chat
// completion response
type ChatCompletionChunk struct {
	ID      string            `json:"id"`
	Object  string            `json:"object"`
	Created int64             `json:"created"`
	Model   string            `json:"model"`
	Choices []ChatChunkChoice `json:"choices"`
}

// CreateChatCompletion performs a chat completion request
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatRequest) (*ChatCompletion, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	req.Stream = false

	var out ChatCompletion
	if err := c.postJSON(ctx, "/chat/completions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateChatCompletionStream performs a streaming chat completion request.
// The returned stream yields one ChatCompletionChunk per server event until
// the [DONE] sentinel; the caller must Close it.
func (c *Client) CreateChatCompletionStream(ctx context.Context, req ChatRequest) (*Stream[ChatCompletionChunk], error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	req.Stream = true

	body, err := c.postJSONStream(ctx, "/chat/completions", req)
	if err != nil {
		return nil, err
	}
	return newEventStream[ChatCompletionChunk](body, c.streamFailFast), nil
}
