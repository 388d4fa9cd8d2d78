// Models: list and describe the models available to the API key
package openai

import "context"

// Model describes a model available through the API
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object,omitempty"`
	Created int64  `json:"created,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// ListModels lists the currently available models
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var out listEnvelope[Model]
	if err := c.getJSON(ctx, "/models", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetModel retrieves a single model by ID
func (c *Client) GetModel(ctx context.Context, id string) (*Model, error) {
	var out Model
	if err := c.getJSON(ctx, "/models/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteModel deletes a fine-tuned model. The caller must have the Owner
// role in the organization that owns it.
func (c *Client) DeleteModel(ctx context.Context, id string) (*Deleted, error) {
	var out Deleted
	if err := c.deleteJSON(ctx, "/models/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
