package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// Service endpoints, relative to the base URL
const (
	GeneratePath = "/generate"
	HealthPath   = "/health"
)

// StatusSuccess is the envelope status of a successful call
const StatusSuccess = "success"

// GenerateRequest is the body of POST /generate
type GenerateRequest struct {
	Requirement string `json:"requirement"`
}

// Envelope is the {status, data | message} wrapper the service uses.
// Data is left undecoded.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// OK reports whether the envelope carries a successful result
func (e *Envelope) OK() bool {
	return e != nil && e.Status == StatusSuccess
}

// GenerateSurvey asks the service to generate a survey for requirement.
// A logical failure (status != "success" on HTTP 2xx) is returned as an
// envelope, not an error; interpreting it is the caller's job.
func (c *Client) GenerateSurvey(ctx context.Context, requirement string) (*Envelope, error) {
	var env Envelope
	decode := func(body []byte) *RequestError {
		if len(bytes.TrimSpace(body)) == 0 {
			return &RequestError{Type: ErrTypeParse, Message: "empty generation response"}
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return &RequestError{Type: ErrTypeParse, Message: "failed to parse generation response", Err: err}
		}
		return nil
	}

	if _, err := c.do(ctx, http.MethodPost, GeneratePath, GenerateRequest{Requirement: requirement}, decode); err != nil {
		return nil, err
	}
	return &env, nil
}

// HealthCheck calls GET /health and returns the body unchanged
func (c *Client) HealthCheck(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, HealthPath)
}
