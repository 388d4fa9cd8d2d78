// Files: upload documents usable across endpoints, e.g. fine-tuning
// training data in JSONL format.
package openai

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/google/uuid"
)

// File describes an uploaded file
type File struct {
	ID        string `json:"id"`
	Object    string `json:"object,omitempty"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
}

// UploadFileRequest describes a file upload. Purpose and Reader are
// required; a missing Filename gets a generated .jsonl name, since the API
// uses the extension to validate the content type.
type UploadFileRequest struct {
	Filename string
	Purpose  string
	Reader   io.Reader
}

// UploadFile uploads a file to be used across endpoints. All files
// uploaded by one organization can total up to 1 GB.
func (c *Client) UploadFile(ctx context.Context, req UploadFileRequest) (*File, error) {
	if req.Reader == nil {
		return nil, &Error{
			Code:    "missing_file",
			Message: "File content reader is required",
			Type:    "invalid_request_error",
		}
	}
	filename := req.Filename
	if filename == "" {
		filename = uuid.NewString() + ".jsonl"
	}

	var out File
	err := c.postForm(ctx, "/files", func(w *multipart.Writer) error {
		if err := w.WriteField("purpose", req.Purpose); err != nil {
			return fmt.Errorf("write purpose field: %w", err)
		}
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, req.Reader); err != nil {
			return fmt.Errorf("copy file content: %w", err)
		}
		return nil
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFiles lists the files belonging to the organization
func (c *Client) ListFiles(ctx context.Context) ([]File, error) {
	var out listEnvelope[File]
	if err := c.getJSON(ctx, "/files", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetFile returns information about a specific file
func (c *Client) GetFile(ctx context.Context, id string) (*File, error) {
	var out File
	if err := c.getJSON(ctx, "/files/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFile deletes a file
func (c *Client) DeleteFile(ctx context.Context, id string) (*Deleted, error) {
	var out Deleted
	if err := c.deleteJSON(ctx, "/files/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFileContent returns the raw content of a file. The caller must close
// the reader.
func (c *Client) GetFileContent(ctx context.Context, id string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, "GET", "/files/"+id+"/content", nil, "")
	if err != nil {
		return nil, err
	}
	return c.doRaw(req)
}

// GetFileLines streams the content of a JSONL file, decoding one record of
// type T per line through the same framing decoder used for event streams.
// The caller must Close the returned stream.
func GetFileLines[T any](ctx context.Context, c *Client, id string) (*Stream[T], error) {
	body, err := c.GetFileContent(ctx, id)
	if err != nil {
		return nil, err
	}
	return newJSONLinesStream[T](body), nil
}
