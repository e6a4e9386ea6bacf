// Package client is a thin Go client for the perf-monitor HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client { return &Client{BaseURL: baseURL, HTTP: http.DefaultClient} }

type Session struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	ClientAddr      string `json:"clientAddr"`
	BudgetHz        int    `json:"budgetHz"`
	CommitCount     int    `json:"commitCount"`
	DocumentName    string `json:"documentName"`
	DocumentPreview string `json:"documentPreview"`
}

type Report struct {
	Stats       json.RawMessage `json:"stats"`
	Jank        json.RawMessage `json:"jank"`
	Suggestions []string        `json:"suggestions"`
	BudgetMs    float64         `json:"budgetMs"`
}

type UploadResult struct {
	SessionID string `json:"sessionId"`
	Commits   int    `json:"commits"`
	Report    Report `json:"report"`
}

func (c *Client) ListSessions(ctx context.Context, limit, offset int) ([]Session, int, error) {
	var out struct {
		Items []Session `json:"items"`
		Total int       `json:"total"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/api/sessions?limit=%d&offset=%d", limit, offset), &out)
	return out.Items, out.Total, err
}

func (c *Client) GetReport(ctx context.Context, sessionID string) (Report, error) {
	var out Report
	err := c.getJSON(ctx, "/api/sessions/"+sessionID+"/report", &out)
	return out, err
}

func (c *Client) GetSuggestions(ctx context.Context, sessionID string) ([]string, error) {
	var out struct {
		Items []string `json:"items"`
	}
	err := c.getJSON(ctx, "/api/sessions/"+sessionID+"/suggestions", &out)
	return out.Items, err
}

// UploadProfile posts a raw profile export and returns the import
// session's computed report.
func (c *Client) UploadProfile(ctx context.Context, export []byte, hz int) (UploadResult, error) {
	var out UploadResult
	url := fmt.Sprintf("%s/api/profiles?hz=%d", c.BaseURL, hz)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(export))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return out, fmt.Errorf("upload failed: %s: %s", resp.Status, body)
	}
	return out, json.NewDecoder(resp.Body).Decode(&out)
}

func (c *Client) StartCapture(ctx context.Context, hz int) error {
	return c.postJSON(ctx, "/api/capture", map[string]any{"action": "start", "hz": hz})
}

func (c *Client) StopCapture(ctx context.Context) error {
	return c.postJSON(ctx, "/api/capture", map[string]any{"action": "stop"})
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: %s: %s", path, resp.Status, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: %s: %s", path, resp.Status, body)
	}
	return nil
}
