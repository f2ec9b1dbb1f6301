// Package api is the HTTP transport for the task API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/taskcal/internal/logger"
	"github.com/google/uuid"
)

// ErrNoContent is returned by Do when the server answered 204
var ErrNoContent = errors.New("no content")

// Error is a failed request. Status is 0 when the request never got an answer.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client talks JSON to the task API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP uses an existing http.Client, mostly for tests
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// BaseURL returns the server the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body as JSON (if non-nil) and decodes the response into out (if
// non-nil). A 204 returns ErrNoContent and leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	log := logger.WithFields(logger.F("request_id", requestID))
	log.Debug("API request", logger.F("method", method), logger.F("path", path))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("API request failed", logger.F("error", err))
		return &Error{Status: 0, Message: "failed to connect", Err: err}
	}
	defer resp.Body.Close()

	log.Debug("API response",
		logger.F("status", resp.StatusCode),
		logger.F("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNoContent {
		return ErrNoContent
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	return nil
}

// errorMessage prefers the server's "error" field, then "message"
func errorMessage(status int, data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("HTTP error %d", status)
}

// ServerMessage returns the server-provided message of an *Error, or def
func ServerMessage(err error, def string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 && apiErr.Message != "" {
		return apiErr.Message
	}
	return def
}
