package tamarind

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// UploadFile streams a local file to the remote store under its base
// filename and returns the service's acknowledgment text (opaque,
// service-defined). A missing local path is a *FileNotFoundError.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &FileNotFoundError{Path: path}
		}
		return "", fmt.Errorf("read upload file: %w", err)
	}

	filename := filepath.Base(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"upload/"+filename, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &APIError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &APIError{Op: "upload", Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Op: "upload", Status: resp.StatusCode, Body: excerpt(body)}
	}
	return string(body), nil
}

// ListFiles returns the account's uploaded files as loose records.
func (c *Client) ListFiles(ctx context.Context) ([]map[string]any, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "files", nil)
	if err != nil {
		return nil, err
	}

	var files []map[string]any
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("parse files listing: %w", err)
	}
	return files, nil
}

// DeleteFile removes an uploaded file from the account.
func (c *Client) DeleteFile(ctx context.Context, filename string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "delete-file", map[string]any{"filename": filename})
	return err
}
