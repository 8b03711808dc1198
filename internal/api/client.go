package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/muurk/surveygen/internal/config"
	"github.com/muurk/surveygen/internal/logging"
	"github.com/muurk/surveygen/internal/metrics"
	"github.com/muurk/surveygen/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	// Generation is AI-backed and routinely takes tens of seconds.
	DefaultTimeout = 60 * time.Second

	// RequestIDHeader carries a per-request identifier for log correlation
	RequestIDHeader = "X-Request-ID"

	// maxResponseSize caps how much of a response body is read
	maxResponseSize = 10 << 20
)

// Client is the HTTP adapter for the survey service.
// It is safe for concurrent use.
type Client struct {
	// BaseURL is prepended to every request path (e.g., "http://localhost:5001/api")
	BaseURL string

	// HTTPClient is the underlying HTTP client; its Timeout is the request timeout
	HTTPClient *http.Client

	// Recorder receives per-request metrics (optional)
	Recorder *metrics.Recorder

	// UserAgent is sent with every request
	UserAgent string

	newRequestID func() string
}

// NewClient creates a client for the given absolute base URL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		HTTPClient:   &http.Client{Timeout: DefaultTimeout},
		UserAgent:    version.UserAgent(),
		newRequestID: uuid.NewString,
	}
}

// NewClientFromConfig creates a client from resolved configuration
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	baseURL, err := cfg.ResolvedBaseURL()
	if err != nil {
		return nil, err
	}

	client := NewClient(baseURL)
	client.SetTimeout(cfg.Timeout)
	return client, nil
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Timeout returns the HTTP request timeout
func (c *Client) Timeout() time.Duration {
	return c.HTTPClient.Timeout
}

// Post sends body as JSON to BaseURL+path and returns the response body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// Get sends a GET to BaseURL+path and returns the response body.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

// do performs one request. A non-nil decode runs on a 2xx body before the
// request is counted as successful; its error is reported like any other
// request failure.
func (c *Client) do(ctx context.Context, method, path string, body any, decode func([]byte) *RequestError) (json.RawMessage, error) {
	requestID := c.requestID()
	start := time.Now()

	fail := func(reqErr *RequestError) (json.RawMessage, error) {
		reqErr.Method = method
		reqErr.Path = path
		reqErr.RequestID = requestID
		c.Recorder.ObserveRequest(method, path, reqErr.Type.label(), time.Since(start))
		logging.Debug("HTTP request failed: " + reqErr.Detail())
		return nil, reqErr
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fail(&RequestError{Type: ErrTypeTransport, Message: "failed to encode request body", Err: err})
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fail(&RequestError{Type: ErrTypeTransport, Message: "failed to create request", Err: err})
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	logging.LogHTTPRequest(requestID, method, req.URL.String(), len(payload))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fail(newTransportError(ctx, err, c.Timeout().Milliseconds()))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fail(newTransportError(ctx, err, c.Timeout().Milliseconds()))
	}

	logging.LogHTTPResponse(requestID, resp.StatusCode, len(respBody), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(&RequestError{
			Type:       ErrTypeServer,
			Message:    serverMessage(respBody, resp.StatusCode),
			StatusCode: resp.StatusCode,
		})
	}

	if decode != nil {
		if reqErr := decode(respBody); reqErr != nil {
			return fail(reqErr)
		}
	}

	c.Recorder.ObserveRequest(method, path, "ok", time.Since(start))

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}
	return json.RawMessage(respBody), nil
}

func (c *Client) requestID() string {
	if c.newRequestID == nil {
		return uuid.NewString()
	}
	return c.newRequestID()
}

// serverMessage prefers the server-supplied "message" field, then a message
// describing the status code.
func serverMessage(body []byte, statusCode int) string {
	if gjson.ValidBytes(body) {
		if msg := strings.TrimSpace(gjson.GetBytes(body, "message").String()); msg != "" {
			return msg
		}
	}
	if statusCode != 0 {
		return fmt.Sprintf("request failed with status code %d", statusCode)
	}
	return FallbackMessage
}
