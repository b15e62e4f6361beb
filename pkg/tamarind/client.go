// Package tamarind implements the client for the Tamarind Bio
// computational-job API: tool discovery, file upload, job submission,
// status polling, and result retrieval. The service reports job status
// with inconsistent field names and casings; this package owns the one
// normalization point (JobState) so callers never re-implement it.
package tamarind

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the production Tamarind API root.
const DefaultBaseURL = "https://app.tamarind.bio/api/"

// RemoteTool describes one capability the job service exposes.
type RemoteTool struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Description string    `json:"description"`
	GitHub      string    `json:"github,omitempty"`
	Paper       string    `json:"paper,omitempty"`
	Settings    []Setting `json:"settings,omitempty"`
}

// Setting is one parameter of a remote tool.
type Setting struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// Client talks to the Tamarind API. The tool catalog cache lives for the
// client's lifetime with exactly one writer path (Tools with refresh);
// staleness is the caller's explicit choice.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client

	toolsCache []RemoteTool
}

// NewClient creates a client. A missing API key is a hard failure — every
// request carries it and nothing works without one. baseURL "" selects the
// production endpoint; tests point it at a fake server.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("tamarind: API key required (set TAMARIND_API_KEY)")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}, nil
}

// doJSON issues an authenticated request with an optional JSON body and
// returns the raw response body. Non-2xx statuses and transport errors are
// wrapped as *APIError.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &APIError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: endpoint, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Op: endpoint, Status: resp.StatusCode, Body: excerpt(data)}
	}
	return data, nil
}

// excerpt trims a response body for error messages.
func excerpt(data []byte) string {
	const max = 200
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// Tools returns the remote tool catalog, fetching it on first use and
// caching it for the client's lifetime. refresh forces a re-fetch and
// replaces the cache.
func (c *Client) Tools(ctx context.Context, refresh bool) ([]RemoteTool, error) {
	if c.toolsCache != nil && !refresh {
		return c.toolsCache, nil
	}

	data, err := c.doJSON(ctx, http.MethodGet, "tools", nil)
	if err != nil {
		return nil, err
	}

	var tools []RemoteTool
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, fmt.Errorf("parse tools catalog: %w", err)
	}
	c.toolsCache = tools
	return tools, nil
}

// ToolSpec returns the cached spec for name, or nil if the service does not
// offer it.
func (c *Client) ToolSpec(ctx context.Context, name string) (*RemoteTool, error) {
	tools, err := c.Tools(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range tools {
		if tools[i].Name == name {
			return &tools[i], nil
		}
	}
	return nil, nil
}

// ToolNames returns the names of all available tools.
func (c *Client) ToolNames(ctx context.Context) ([]string, error) {
	tools, err := c.Tools(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names, nil
}

// SearchTools returns tools whose name, display name, or description
// contains query (case-insensitive).
func (c *Client) SearchTools(ctx context.Context, query string) ([]RemoteTool, error) {
	tools, err := c.Tools(ctx, false)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)
	var matches []RemoteTool
	for _, t := range tools {
		if strings.Contains(strings.ToLower(t.Name), query) ||
			strings.Contains(strings.ToLower(t.Description), query) ||
			strings.Contains(strings.ToLower(t.DisplayName), query) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// FormatTool renders a tool spec as a readable block for terminal output
// and for feeding back to the decision-maker.
func FormatTool(t *RemoteTool) string {
	var sb strings.Builder
	display := t.DisplayName
	if display == "" {
		display = t.Name
	}
	fmt.Fprintf(&sb, "Tool: %s\n", display)
	fmt.Fprintf(&sb, "  Name: %s\n", t.Name)
	desc := t.Description
	if desc == "" {
		desc = "N/A"
	}
	fmt.Fprintf(&sb, "  Description: %s\n", desc)
	if t.GitHub != "" {
		fmt.Fprintf(&sb, "  GitHub: %s\n", t.GitHub)
	}
	if t.Paper != "" {
		fmt.Fprintf(&sb, "  Paper: %s\n", t.Paper)
	}
	if len(t.Settings) > 0 {
		sb.WriteString("  Settings:\n")
		for _, s := range t.Settings {
			req := ""
			if s.Required {
				req = " (required)"
			}
			fmt.Fprintf(&sb, "    - %s%s: %s\n", s.Name, req, s.Description)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
