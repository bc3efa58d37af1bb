// Package n8n provides a client for the n8n workflow engine REST API.
// The client is a thin, single-call wrapper: no retries, no backoff, no
// caching. Those policies belong to the callers, which have enough context
// to decide what is safe to repeat.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiPrefix = "/api/v1"

// Client talks to one n8n instance, authenticated by a static API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an n8n client. The timeout bounds every call; the
// engine is a third party and may be slow or unreachable.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// doRequest performs one HTTP call and normalizes every failure into a
// *RemoteError. n8n returns an empty body for DELETE; callers decode the
// returned bytes themselves.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-N8N-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Status: resp.StatusCode, Message: "failed to read response body: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{
			Status:  resp.StatusCode,
			Message: errorMessage(respBody, resp.StatusCode),
			RawBody: respBody,
		}
	}

	return respBody, nil
}

// errorMessage pulls n8n's "message" field out of an error body, falling
// back to the raw text.
func errorMessage(body []byte, status int) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	if len(body) > 0 {
		const max = 500
		if len(body) > max {
			body = body[:max]
		}
		return string(body)
	}
	return http.StatusText(status)
}
