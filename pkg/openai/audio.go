// Audio: transcribe audio into its input language, or translate it into
// English, using the whisper models.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/google/uuid"
)

// DefaultAudioModel is the only model the audio endpoints currently accept
const DefaultAudioModel = "whisper-1"

// AudioFormat selects the transcript output format
type AudioFormat string

const (
	AudioFormatJSON        AudioFormat = "json"
	AudioFormatText        AudioFormat = "text"
	AudioFormatSRT         AudioFormat = "srt"
	AudioFormatVerboseJSON AudioFormat = "verbose_json"
	AudioFormatVTT         AudioFormat = "vtt"
)

// AudioRequest describes a transcription or translation. File and a
// Filename with a recognized audio extension are required; the API rejects
// uploads whose extension it cannot map to a codec.
type AudioRequest struct {
	File     io.Reader
	Filename string

	// Model defaults to whisper-1.
	Model string
	// Prompt guides the model's style or continues a previous segment.
	Prompt string
	// Language of the input audio as an ISO-639-1 code (transcription
	// only).
	Language string
	// Temperature is the sampling temperature, between 0 and 1.
	Temperature *float64
	// ResponseFormat defaults to json.
	ResponseFormat AudioFormat
}

// AudioSegment is one segment of a verbose_json transcript
type AudioSegment struct {
	ID               int     `json:"id"`
	Seek             int     `json:"seek"`
	Start            float64 `json:"start"`
	End              float64 `json:"end"`
	Text             string  `json:"text"`
	Tokens           []int   `json:"tokens"`
	Temperature      float64 `json:"temperature"`
	AvgLogprob       float64 `json:"avg_logprob"`
	CompressionRatio float64 `json:"compression_ratio"`
	NoSpeechProb     float64 `json:"no_speech_prob"`
}

// AudioResponse is the decoded transcript. For the json format only Text
// is set; verbose_json fills in the remaining fields; text, srt and vtt
// responses are returned verbatim in Text.
type AudioResponse struct {
	Task     string         `json:"task,omitempty"`
	Language string         `json:"language,omitempty"`
	Duration float64        `json:"duration,omitempty"`
	Segments []AudioSegment `json:"segments,omitempty"`
	Text     string         `json:"text"`
}

// CreateTranscription transcribes audio into its input language
func (c *Client) CreateTranscription(ctx context.Context, req AudioRequest) (*AudioResponse, error) {
	return c.createAudio(ctx, "/audio/transcriptions", req, true)
}

// CreateTranslation translates audio into English
func (c *Client) CreateTranslation(ctx context.Context, req AudioRequest) (*AudioResponse, error) {
	return c.createAudio(ctx, "/audio/translations", req, false)
}

func (c *Client) createAudio(ctx context.Context, path string, req AudioRequest, withLanguage bool) (*AudioResponse, error) {
	if req.File == nil {
		return nil, &Error{
			Code:    "missing_file",
			Message: "An audio file is required",
			Type:    "invalid_request_error",
		}
	}
	if err := checkRange("temperature", req.Temperature, 0, 1); err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = DefaultAudioModel
	}
	filename := req.Filename
	if filename == "" {
		filename = uuid.NewString() + ".mp3"
	}

	body, err := c.postFormRaw(ctx, path, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, req.File); err != nil {
			return fmt.Errorf("copy file content: %w", err)
		}
		if err := w.WriteField("model", model); err != nil {
			return fmt.Errorf("write model field: %w", err)
		}
		if req.Prompt != "" {
			if err := w.WriteField("prompt", req.Prompt); err != nil {
				return fmt.Errorf("write prompt field: %w", err)
			}
		}
		if withLanguage && req.Language != "" {
			if err := w.WriteField("language", req.Language); err != nil {
				return fmt.Errorf("write language field: %w", err)
			}
		}
		if req.Temperature != nil {
			if err := w.WriteField("temperature", strconv.FormatFloat(*req.Temperature, 'f', -1, 64)); err != nil {
				return fmt.Errorf("write temperature field: %w", err)
			}
		}
		if req.ResponseFormat != "" {
			if err := w.WriteField("response_format", string(req.ResponseFormat)); err != nil {
				return fmt.Errorf("write response_format field: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch req.ResponseFormat {
	case "", AudioFormatJSON, AudioFormatVerboseJSON:
		var out AudioResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, &Error{
				Code:    "decode_error",
				Message: fmt.Sprintf("Failed to decode response: %v", err),
				Type:    "client_error",
			}
		}
		return &out, nil
	default:
		// text, srt and vtt come back as plain text.
		return &AudioResponse{Text: string(body)}, nil
	}
}
