// Types shared across endpoints
package openai

// Usage reports token accounting for a request
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Deleted is the response to delete operations on files and fine-tuned
// models
type Deleted struct {
	ID      string `json:"id"`
	Object  string `json:"object,omitempty"`
	Deleted bool   `json:"deleted"`
}

// listEnvelope is the {"data": [...]} wrapper used by the list endpoints
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}
