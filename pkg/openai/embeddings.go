// Embeddings: get a vector representation of a given input that can be
// consumed by machine learning models.
package openai

import "context"

// EmbeddingRequest is a request to the embeddings endpoint
type EmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
	User  string   `json:"user,omitempty"`
}

// Embedding is a single embedding vector
type Embedding struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

// EmbeddingResponse is the response to an embedding request
type EmbeddingResponse struct {
	Data  []Embedding `json:"data"`
	Model string      `json:"model"`
	Usage *Usage      `json:"usage,omitempty"`
}

// CreateEmbeddings creates embedding vectors for the given inputs
func (c *Client) CreateEmbeddings(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	if len(req.Input) == 0 {
		return nil, &Error{
			Code:    "missing_input",
			Message: "At least one input is required",
			Type:    "invalid_request_error",
		}
	}
	var out EmbeddingResponse
	if err := c.postJSON(ctx, "/embeddings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
