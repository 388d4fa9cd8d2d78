// Client construction and shared HTTP plumbing
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Client talks to the OpenAI REST API. It is safe for concurrent use; the
// streams it hands out are not.
type Client struct {
	apiKey       string
	organization string
	baseURL      string

	httpClient *http.Client
	// streamClient carries no client-level timeout so that long-lived
	// streaming bodies stay open; cancellation comes from the request
	// context.
	streamClient   *http.Client
	streamFailFast bool
}

// New creates a new Client from the given configuration
func New(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, &Error{
			Code:    "missing_api_key",
			Message: "API key is required",
			Type:    "authentication_error",
		}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	streamClient := &http.Client{
		Transport:     httpClient.Transport,
		CheckRedirect: httpClient.CheckRedirect,
		Jar:           httpClient.Jar,
	}

	return &Client{
		apiKey:         config.APIKey,
		organization:   config.Organization,
		baseURL:        baseURL,
		httpClient:     httpClient,
		streamClient:   streamClient,
		streamFailFast: config.StreamFailFast,
	}, nil
}

// NewFromEnv creates a Client configured from environment variables, see
// ConfigFromEnv.
func NewFromEnv() (*Client, error) {
	return New(ConfigFromEnv())
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{
			Code:    "request_error",
			Message: fmt.Sprintf("Failed to create request: %v", err),
			Type:    "client_error",
		}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// decodeAPIError turns a response carrying the API error envelope (or a
// bare non-2xx status) into an *Error. It returns nil for healthy
// responses.
func decodeAPIError(statusCode int, body []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		env.Error.StatusCode = statusCode
		return env.Error
	}
	if statusCode >= http.StatusBadRequest {
		return &Error{
			Code:       fmt.Sprintf("http_%d", statusCode),
			Message:    http.StatusText(statusCode),
			Type:       "api_error",
			StatusCode: statusCode,
		}
	}
	return nil
}

// doJSON executes the request and decodes the JSON response into out,
// surfacing API errors wrapped in the error envelope.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{
			Code:    "network_error",
			Message: fmt.Sprintf("Request failed: %v", err),
			Type:    "network_error",
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Code:    "network_error",
			Message: fmt.Sprintf("Failed to read response: %v", err),
			Type:    "network_error",
		}
	}
	if err := decodeAPIError(resp.StatusCode, body); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Code:    "decode_error",
			Message: fmt.Sprintf("Failed to decode response: %v", err),
			Type:    "client_error",
		}
	}
	return nil
}

// doRaw executes the request and hands back the raw body for the caller to
// consume, after checking the status line for an API error.
func (c *Client) doRaw(req *http.Request) (io.ReadCloser, error) {
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, &Error{
			Code:    "network_error",
			Message: fmt.Sprintf("Request failed: %v", err),
			Type:    "network_error",
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return resp.Body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, "")
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	req, err := c.newJSONRequest(ctx, path, in)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) newJSONRequest(ctx context.Context, path string, in any) (*http.Request, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, &Error{
			Code:    "request_error",
			Message: fmt.Sprintf("Failed to serialize request: %v", err),
			Type:    "client_error",
		}
	}
	return c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json")
}

// postJSONStream issues a JSON POST and returns the raw response body for
// server-sent-event consumption.
func (c *Client) postJSONStream(ctx context.Context, path string, in any) (io.ReadCloser, error) {
	req, err := c.newJSONRequest(ctx, path, in)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	return c.doRaw(req)
}

func (c *Client) getStream(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	return c.doRaw(req)
}

// postForm builds a multipart request body through fill and decodes the
// JSON response into out. Upload bodies are buffered; the API caps file
// uploads well below memory-hostile sizes.
func (c *Client) postForm(ctx context.Context, path string, fill func(w *multipart.Writer) error, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := fill(w); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return &Error{
			Code:    "request_error",
			Message: fmt.Sprintf("Failed to finalize multipart body: %v", err),
			Type:    "client_error",
		}
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// postFormRaw is postForm for endpoints that may answer with a non-JSON
// body (audio transcriptions in text, srt or vtt format).
func (c *Client) postFormRaw(ctx context.Context, path string, fill func(w *multipart.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := fill(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, &Error{
			Code:    "request_error",
			Message: fmt.Sprintf("Failed to finalize multipart body: %v", err),
			Type:    "client_error",
		}
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{
			Code:    "network_error",
			Message: fmt.Sprintf("Request failed: %v", err),
			Type:    "network_error",
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Code:    "network_error",
			Message: fmt.Sprintf("Failed to read response: %v", err),
			Type:    "network_error",
		}
	}
	if err := decodeAPIError(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}
