// Images: given a prompt and/or an input image, the model generates a new
// image. Pixel-level conversion of inputs is out of scope; callers hand
// over PNG bytes and receive URLs or base64 payloads.
package openai

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/google/uuid"
)

// ImageSize is the resolution of generated images
type ImageSize string

const (
	ImageSize256  ImageSize = "256x256"
	ImageSize512  ImageSize = "512x512"
	ImageSize1024 ImageSize = "1024x1024"
)

// ImageFormat selects how generated images are returned
type ImageFormat string

const (
	ImageFormatURL     ImageFormat = "url"
	ImageFormatB64JSON ImageFormat = "b64_json"
)

// ImageData is one generated image, either a URL or a base64-encoded PNG
// depending on the requested format
type ImageData struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// ImageResponse is the response to the image endpoints
type ImageResponse struct {
	Created int64       `json:"created"`
	Data    []ImageData `json:"data"`
}

// ImageRequest is a request to generate images from a prompt
type ImageRequest struct {
	// Prompt describes the desired image, at most 1000 characters.
	Prompt string `json:"prompt"`
	// N is the number of images to generate, between 1 and 10.
	N              int         `json:"n,omitempty"`
	Size           ImageSize   `json:"size,omitempty"`
	ResponseFormat ImageFormat `json:"response_format,omitempty"`
	User           string      `json:"user,omitempty"`
}

const (
	maxImagePrompt = 1000
	maxImageCount  = 10
)

func validateImagePrompt(prompt string) error {
	if prompt == "" {
		return &Error{
			Code:    "missing_prompt",
			Message: "A prompt is required",
			Type:    "invalid_request_error",
		}
	}
	if len(prompt) > maxImagePrompt {
		return &Error{
			Code:    "invalid_prompt",
			Message: fmt.Sprintf("Prompt exceeds character limit of %d", maxImagePrompt),
			Type:    "invalid_request_error",
		}
	}
	return nil
}

func validateImageCount(n int) error {
	if n < 0 || n > maxImageCount {
		return &Error{
			Code:    "invalid_n",
			Message: fmt.Sprintf("n out of range [1, %d]: %d", maxImageCount, n),
			Type:    "invalid_request_error",
		}
	}
	return nil
}

// CreateImage creates images given a prompt
func (c *Client) CreateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	if err := validateImagePrompt(req.Prompt); err != nil {
		return nil, err
	}
	if err := validateImageCount(req.N); err != nil {
		return nil, err
	}
	var out ImageResponse
	if err := c.postJSON(ctx, "/images/generations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImageEditRequest edits an image according to a prompt. Image is a square
// PNG of at most 4 MB; Mask optionally marks the area to edit with fully
// transparent pixels.
type ImageEditRequest struct {
	Image    io.Reader
	Mask     io.Reader
	Prompt   string
	Filename string

	N              int
	Size           ImageSize
	ResponseFormat ImageFormat
	User           string
}

// CreateImageEdit creates an edited image given an original image and a
// prompt
func (c *Client) CreateImageEdit(ctx context.Context, req ImageEditRequest) (*ImageResponse, error) {
	if req.Image == nil {
		return nil, &Error{
			Code:    "missing_image",
			Message: "An input image is required",
			Type:    "invalid_request_error",
		}
	}
	if err := validateImagePrompt(req.Prompt); err != nil {
		return nil, err
	}
	if err := validateImageCount(req.N); err != nil {
		return nil, err
	}

	var out ImageResponse
	err := c.postForm(ctx, "/images/edits", func(w *multipart.Writer) error {
		if err := writeImagePart(w, "image", req.Filename, req.Image); err != nil {
			return err
		}
		if req.Mask != nil {
			if err := writeImagePart(w, "mask", "", req.Mask); err != nil {
				return err
			}
		}
		if err := w.WriteField("prompt", req.Prompt); err != nil {
			return fmt.Errorf("write prompt field: %w", err)
		}
		return writeImageOptions(w, req.N, req.Size, req.ResponseFormat, req.User)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ImageVariationRequest creates variations of a source image
type ImageVariationRequest struct {
	Image    io.Reader
	Filename string

	N              int
	Size           ImageSize
	ResponseFormat ImageFormat
	User           string
}

// CreateImageVariation creates variations of a given image
func (c *Client) CreateImageVariation(ctx context.Context, req ImageVariationRequest) (*ImageResponse, error) {
	if req.Image == nil {
		return nil, &Error{
			Code:    "missing_image",
			Message: "An input image is required",
			Type:    "invalid_request_error",
		}
	}
	if err := validateImageCount(req.N); err != nil {
		return nil, err
	}

	var out ImageResponse
	err := c.postForm(ctx, "/images/variations", func(w *multipart.Writer) error {
		if err := writeImagePart(w, "image", req.Filename, req.Image); err != nil {
			return err
		}
		return writeImageOptions(w, req.N, req.Size, req.ResponseFormat, req.User)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func writeImagePart(w *multipart.Writer, field, filename string, r io.Reader) error {
	if filename == "" {
		filename = uuid.NewString() + ".png"
	}
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy %s content: %w", field, err)
	}
	return nil
}

func writeImageOptions(w *multipart.Writer, n int, size ImageSize, format ImageFormat, user string) error {
	if n > 0 {
		if err := w.WriteField("n", strconv.Itoa(n)); err != nil {
			return fmt.Errorf("write n field: %w", err)
		}
	}
	if size != "" {
		if err := w.WriteField("size", string(size)); err != nil {
			return fmt.Errorf("write size field: %w", err)
		}
	}
	if format != "" {
		if err := w.WriteField("response_format", string(format)); err != nil {
			return fmt.Errorf("write response_format field: %w", err)
		}
	}
	if user != "" {
		if err := w.WriteField("user", user); err != nil {
			return fmt.Errorf("write user field: %w", err)
		}
	}
	return nil
}
