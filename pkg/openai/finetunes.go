// Fine-tunes: manage jobs that tailor a model to specific training data
package openai

import (
	"context"
	"fmt"
)

// FineTuneRequest is a request to create a fine-tune job. TrainingFile is
// the ID of an uploaded JSONL file with purpose "fine-tune".
type FineTuneRequest struct {
	TrainingFile   string `json:"training_file"`
	ValidationFile string `json:"validation_file,omitempty"`
	Model          string `json:"model,omitempty"`

	NEpochs                *int     `json:"n_epochs,omitempty"`
	BatchSize              *int     `json:"batch_size,omitempty"`
	LearningRateMultiplier *float64 `json:"learning_rate_multiplier,omitempty"`
	PromptLossWeight       *float64 `json:"prompt_loss_weight,omitempty"`

	ComputeClassificationMetrics bool      `json:"compute_classification_metrics,omitempty"`
	ClassificationNClasses       *int      `json:"classification_n_classes,omitempty"`
	ClassificationPositiveClass  string    `json:"classification_positive_class,omitempty"`
	ClassificationBetas          []float64 `json:"classification_betas,omitempty"`

	// Suffix of up to 40 characters added to the fine-tuned model name.
	Suffix string `json:"suffix,omitempty"`
}

const maxFineTuneSuffix = 40

func (r *FineTuneRequest) validate() error {
	if r.TrainingFile == "" {
		return &Error{
			Code:    "missing_training_file",
			Message: "A training file ID is required",
			Type:    "invalid_request_error",
		}
	}
	if len(r.Suffix) > maxFineTuneSuffix {
		return &Error{
			Code:    "invalid_suffix",
			Message: fmt.Sprintf("Suffix exceeds maximum length of %d", maxFineTuneSuffix),
			Type:    "invalid_request_error",
		}
	}
	return nil
}

// Hyperparams reports the hyperparameters a fine-tune job ran with
type Hyperparams struct {
	BatchSize              *int     `json:"batch_size,omitempty"`
	LearningRateMultiplier *float64 `json:"learning_rate_multiplier,omitempty"`
	NEpochs                int      `json:"n_epochs"`
	PromptLossWeight       float64  `json:"prompt_loss_weight"`
}

// FineTuneEvent is a status update of a fine-tune job
type FineTuneEvent struct {
	Object    string `json:"object,omitempty"`
	CreatedAt int64  `json:"created_at"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// FineTune describes a fine-tune job
type FineTune struct {
	ID              string          `json:"id"`
	Object          string          `json:"object,omitempty"`
	Model           string          `json:"model"`
	CreatedAt       int64           `json:"created_at"`
	UpdatedAt       int64           `json:"updated_at"`
	Events          []FineTuneEvent `json:"events,omitempty"`
	FineTunedModel  string          `json:"fine_tuned_model,omitempty"`
	Hyperparams     *Hyperparams    `json:"hyperparams,omitempty"`
	OrganizationID  string          `json:"organization_id,omitempty"`
	Status          string          `json:"status"`
	ResultFiles     []File          `json:"result_files"`
	ValidationFiles []File          `json:"validation_files"`
	TrainingFiles   []File          `json:"training_files"`
}

// CreateFineTune creates a job that fine-tunes a model from a given
// dataset. The response includes the enqueued job's status and, once
// complete, the name of the fine-tuned model.
func (c *Client) CreateFineTune(ctx context.Context, req FineTuneRequest) (*FineTune, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	var out FineTune
	if err := c.postJSON(ctx, "/fine-tunes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFineTunes lists the organization's fine-tune jobs
func (c *Client) ListFineTunes(ctx context.Context) ([]FineTune, error) {
	var out listEnvelope[FineTune]
	if err := c.getJSON(ctx, "/fine-tunes", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetFineTune gets info about a fine-tune job
func (c *Client) GetFineTune(ctx context.Context, id string) (*FineTune, error) {
	var out FineTune
	if err := c.getJSON(ctx, "/fine-tunes/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelFineTune immediately cancels a fine-tune job
func (c *Client) CancelFineTune(ctx context.Context, id string) (*FineTune, error) {
	var out FineTune
	req, err := c.newRequest(ctx, "POST", "/fine-tunes/"+id+"/cancel", nil, "")
	if err != nil {
		return nil, err
	}
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFineTuneEvents returns the status updates of a fine-tune job so far
func (c *Client) ListFineTuneEvents(ctx context.Context, id string) ([]FineTuneEvent, error) {
	var out listEnvelope[FineTuneEvent]
	if err := c.getJSON(ctx, "/fine-tunes/"+id+"/events", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateFineTuneEventStream subscribes to status updates of a fine-tune
// job until it terminates. The caller must Close the returned stream.
func (c *Client) CreateFineTuneEventStream(ctx context.Context, id string) (*Stream[FineTuneEvent], error) {
	body, err := c.getStream(ctx, "/fine-tunes/"+id+"/events?stream=true")
	if err != nil {
		return nil, err
	}
	return newEventStream[FineTuneEvent](body, c.streamFailFast), nil
}
