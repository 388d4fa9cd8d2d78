// Moderations: classify whether text violates the content policy
package openai

import "context"

// ModerationRequest is a request to the moderations endpoint. Model is
// optional; the API picks the latest stable classifier when empty.
type ModerationRequest struct {
	Input string `json:"input"`
	Model string `json:"model,omitempty"`
}

// ModerationCategories flags the violated policy categories
type ModerationCategories struct {
	Hate            bool `json:"hate"`
	HateThreatening bool `json:"hate/threatening"`
	SelfHarm        bool `json:"self-harm"`
	Sexual          bool `json:"sexual"`
	SexualMinors    bool `json:"sexual/minors"`
	Violence        bool `json:"violence"`
	ViolenceGraphic bool `json:"violence/graphic"`
}

// ModerationCategoryScores carries the per-category classifier confidence
type ModerationCategoryScores struct {
	Hate            float64 `json:"hate"`
	HateThreatening float64 `json:"hate/threatening"`
	SelfHarm        float64 `json:"self-harm"`
	Sexual          float64 `json:"sexual"`
	SexualMinors    float64 `json:"sexual/minors"`
	Violence        float64 `json:"violence"`
	ViolenceGraphic float64 `json:"violence/graphic"`
}

// ModerationResult is the classification of a single input
type ModerationResult struct {
	Categories     ModerationCategories     `json:"categories"`
	CategoryScores ModerationCategoryScores `json:"category_scores"`
	Flagged        bool                     `json:"flagged"`
}

// Moderation is the response to a moderation request
type Moderation struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Results []ModerationResult `json:"results"`
}

// CreateModeration classifies the input text against the content policy
func (c *Client) CreateModeration(ctx context.Context, req ModerationRequest) (*Moderation, error) {
	var out Moderation
	if err := c.postJSON(ctx, "/moderations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
