// Text completions: given a prompt, the model returns one or more
// predicted completions, optionally with token log probabilities.
package openai

import (
	"context"
	"fmt"
)

// CompletionRequest is a request to the completions endpoint.
// Only Model is required; an absent Prompt makes the model generate from
// the beginning of a new document.
type CompletionRequest struct {
	Model  string   `json:"model"`
	Prompt []string `json:"prompt,omitempty"`
	// Suffix comes after a completion of inserted text.
	Suffix    string `json:"suffix,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`
	// Temperature is the sampling temperature, between 0 and 2.
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	N           int      `json:"n,omitempty"`
	// Logprobs includes log probabilities of the most likely tokens, at
	// most 5.
	Logprobs *int `json:"logprobs,omitempty"`
	// Echo returns the prompt alongside the completion.
	Echo bool `json:"echo,omitempty"`
	// Stop holds up to 4 sequences where generation stops.
	Stop             []string `json:"stop,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	// BestOf generates that many candidates server-side and returns the
	// best; must exceed N when both are set. Not compatible with
	// streaming.
	BestOf    int                `json:"best_of,omitempty"`
	LogitBias map[string]float64 `json:"logit_bias,omitempty"`
	User      string             `json:"user,omitempty"`

	Stream bool `json:"stream,omitempty"`
}

const maxLogprobs = 5

func (r *CompletionRequest) validate() error {
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
	if r.Logprobs != nil && (*r.Logprobs < 0 || *r.Logprobs > maxLogprobs) {
		return &Error{
			Code:    "invalid_logprobs",
			Message: fmt.Sprintf("logprobs out of range [0, %d]: %d", maxLogprobs, *r.Logprobs),
			Type:    "invalid_request_error",
		}
	}
	return nil
}

// Logprobs carries per-token log probabilities for a completion choice
type Logprobs struct {
	Tokens        []string             `json:"tokens"`
	TokenLogprobs []float64            `json:"token_logprobs"`
	TopLogprobs   []map[string]float64 `json:"top_logprobs"`
	TextOffset    []int                `json:"text_offset"`
}

// CompletionChoice is one generated completion
type CompletionChoice struct {
	Text         string    `json:"text"`
	Index        int       `json:"index"`
	Logprobs     *Logprobs `json:"logprobs,omitempty"`
	FinishReason string    `json:"finish_reason,omitempty"`
}

// Completion is the response to a completion request. When streaming, each
// decoded chunk has this same shape with partial choice text.
type Completion struct {
	ID      string             `json:"id"`
	Object  string             `json:"object,omitempty"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   *Usage             `json:"usage,omitempty"`
}

// First returns the first choice, or nil when the response carries none
func (c *Completion) First() *CompletionChoice {
	if len(c.Choices) == 0 {
		return nil
	}
	return &c.Choices[0]
}

// CreateCompletion performs a completion request
func (c *Client) CreateCompletion(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	req.Stream = false

	var out Completion
	if err := c.postJSON(ctx, "/completions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCompletionStream performs a streaming completion request. The
// caller must Close the returned stream.
func (c *Client) CreateCompletionStream(ctx context.Context, req CompletionRequest) (*Stream[Completion], error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	req.Stream = true

	body, err := c.postJSONStream(ctx, "/completions", req)
	if err != nil {
		return nil, err
	}
	return newEventStream[Completion](body, c.streamFailFast), nil
}
