// Package api provides driven adapters backed by the assistant's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driven"
)

// Ensure Client implements the backend-facing interfaces.
var (
	_ driven.UploadClient   = (*Client)(nil)
	_ driven.SnapshotLoader = (*Client)(nil)
	_ driven.AnswerClient   = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 120 * time.Second

	apiPrefix = "/api/v1"
)

// Config holds configuration for the backend API client.
type Config struct {
	// BaseURL is the backend base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the per-request timeout (default: 120s). Ingestion and
	// answering both run full pipelines server-side, so this stays high.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables
	// throttling.
	RequestsPerSecond float64
}

// Client talks to the assistant backend. One instance serves uploads,
// corpus listings and question answering.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// errorResponse is the backend's error format.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewClient creates a new backend API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: limiter,
	}
}

// endpoint builds the full URL for an API route.
func (c *Client) endpoint(route string) string {
	return c.baseURL + apiPrefix + route
}

// wait blocks until the rate limiter allows another request.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// statusError turns a non-2xx response into an error carrying the
// backend's detail message.
func statusError(resp *http.Response) error {
	return fmt.Errorf("backend error (status %d): %s", resp.StatusCode, responseDetail(resp))
}

// responseDetail extracts the backend's error detail. Falls back to the
// raw body when the response is not the expected JSON shape.
func responseDetail(resp *http.Response) string {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "failed to read response"
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		return errResp.Detail
	}
	return strings.TrimSpace(string(body))
}

// fileForm buffers a multipart form with a single "file" field, the
// upload shape every backend file route expects.
func fileForm(filename string, content io.Reader) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

// postForm sends a buffered multipart form and returns the response.
func (c *Client) postForm(ctx context.Context, route string, body *bytes.Buffer, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(route), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// postJSON sends a JSON body and returns the response.
func (c *Client) postJSON(ctx context.Context, route string, payload any) (*http.Response, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(route), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}
