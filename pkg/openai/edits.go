// Edits: given an input and an instruction, the model returns an edited
// version of the input.
package openai

import "context"

// EditRequest is a request to the edits endpoint
type EditRequest struct {
	Model string `json:"model"`
	// Input is the text to edit; the API defaults to an empty string.
	Input string `json:"input,omitempty"`
	// Instruction tells the model how to edit the input.
	Instruction string   `json:"instruction"`
	N           int      `json:"n,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// EditChoice is one edited result
type EditChoice struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Edit is the response to an edit request
type Edit struct {
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Choices []EditChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// CreateEdit performs an edit request
func (c *Client) CreateEdit(ctx context.Context, req EditRequest) (*Edit, error) {
	if err := checkRange("temperature", req.Temperature, 0, 2); err != nil {
		return nil, err
	}
	var out Edit
	if err := c.postJSON(ctx, "/edits", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
