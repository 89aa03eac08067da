// Package client is an HTTP client for the slides API.
package client

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// Client calls the slides API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.logger = log }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 3 * time.Minute},
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate asks the API for slides.
func (c *Client) Generate(ctx context.Context, prompt string) ([]model.Slide, error) {
	var resp model.GenerateResponse
	if err := c.postJSON(ctx, "/generate", model.GenerateRequest{Prompt: prompt}, &resp); err != nil {
		return nil, err
	}
	return resp.Slides, nil
}

// ListHistory returns stored sessions, newest first.
func (c *Client) ListHistory(ctx context.Context) ([]model.HistoryItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history", nil)
	if err != nil {
		return nil, err
	}
	var resp model.ListHistoryResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Save creates or updates a stored session.
func (c *Client) Save(ctx context.Context, in model.SaveHistoryRequest) (*model.SaveHistoryResponse, error) {
	var resp model.SaveHistoryResponse
	if err := c.postJSON(ctx, "/history", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export renders slides with styles on the server and returns the file.
func (c *Client) Export(ctx context.Context, in model.ExportRequest) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/export", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

// Upload sends a presentation file and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*model.UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp model.UploadResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.send(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// send performs the request and turns error statuses into APIError.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	correlationID := uuid.NewString()
	req.Header.Set("X-Correlation-ID", correlationID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	c.logger.Debug("api call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("correlation_id", correlationID),
	)
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return res, nil
	}
	defer res.Body.Close()

	apiErr := &APIError{StatusCode: res.StatusCode}
	var body model.ErrorResponse
	if raw, err := io.ReadAll(io.LimitReader(res.Body, 64<<10)); err == nil {
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Message = body.Error
		}
	}
	return nil, apiErr
}
