package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/muurk/surveygen/internal/config"
	"github.com/muurk/surveygen/internal/metrics"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:5001/api/")

	if client.BaseURL != "http://localhost:5001/api" {
		t.Errorf("BaseURL = %s, want trailing slash trimmed", client.BaseURL)
	}
	if client.Timeout() != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", client.Timeout())
	}
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Timeout = 5 * time.Second

	client, err := NewClientFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewClientFromConfig() error = %v", err)
	}

	if client.BaseURL != "http://localhost:5001/api" {
		t.Errorf("BaseURL = %s, want http://localhost:5001/api", client.BaseURL)
	}
	if client.Timeout() != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.Timeout())
	}
}

func TestNewClientFromConfig_Invalid(t *testing.T) {
	cfg := config.Default()
	cfg.Timeout = 0

	if _, err := NewClientFromConfig(cfg); err == nil {
		t.Error("NewClientFromConfig() should reject a zero timeout")
	}
}

func TestPost_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/echo" {
			t.Errorf("path = %s, want /api/echo", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("request ID header should be set")
		}

		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Ignored", "yes")
		w.Write([]byte(`{"got":` + string(body) + `}`))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	body, err := client.Post(context.Background(), "/echo", map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	var got struct {
		Got map[string]string `json:"got"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("body is not the unwrapped payload: %v (%s)", err, body)
	}
	if got.Got["k"] != "v" {
		t.Errorf("echoed body = %v", got.Got)
	}
}

func TestGet_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			t.Errorf("GET should not send a body, got %d bytes", r.ContentLength)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	body, err := client.Get(context.Background(), "/health")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if body != nil {
		t.Errorf("body = %s, want nil", body)
	}
}

func TestServerError_MessagePreference(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server message", 500, `{"status":"error","message":"quota exceeded"}`, "quota exceeded"},
		{"blank server message", 400, `{"status":"error","message":"  "}`, "request failed with status code 400"},
		{"non-json body", 502, `<html>Bad Gateway</html>`, "request failed with status code 502"},
		{"empty body", 503, ``, "request failed with status code 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.Post(context.Background(), "/generate", GenerateRequest{Requirement: "x"})
			if err == nil {
				t.Fatal("Post() should fail on non-2xx")
			}

			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
			if !IsServerError(err) {
				t.Errorf("error should be a server error, got %T", err)
			}

			reqErr, _ := AsRequestError(err)
			if reqErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", reqErr.StatusCode, tt.status)
			}
			if reqErr.Path != "/generate" || reqErr.Method != http.MethodPost {
				t.Errorf("request context = %s %s", reqErr.Method, reqErr.Path)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL)
	client.SetTimeout(50 * time.Millisecond)

	_, err := client.Post(context.Background(), "/generate", GenerateRequest{Requirement: "slow"})
	if err == nil {
		t.Fatal("Post() should time out")
	}

	if !IsTimeout(err) {
		t.Errorf("error should be a timeout, got %v", err)
	}
	if !IsTransportError(err) {
		t.Error("timeouts should count as transport errors")
	}
	if err.Error() != "timeout of 50ms exceeded" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL)
	_, err := client.Get(ctx, "/health")
	if !IsTimeout(err) {
		t.Errorf("expired context should classify as timeout, got %v", err)
	}
	if err.Error() != DeadlineMessage {
		t.Errorf("message = %q, want %q", err.Error(), DeadlineMessage)
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url)
	_, err := client.Get(context.Background(), "/health")
	if err == nil {
		t.Fatal("Get() should fail against a closed server")
	}

	if !IsTransportError(err) || IsTimeout(err) {
		t.Errorf("error should be a non-timeout transport error, got %v", err)
	}
	if strings.TrimSpace(err.Error()) == "" {
		t.Error("transport error should carry a message")
	}
	if strings.Contains(err.Error(), url) {
		t.Errorf("message should not repeat the URL: %q", err.Error())
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.newRequestID = func() string { return "req-1" }

	_, err := client.Get(context.Background(), "/health")
	if seen != "req-1" {
		t.Errorf("header = %q, want req-1", seen)
	}

	reqErr, ok := AsRequestError(err)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if reqErr.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", reqErr.RequestID)
	}
	if !strings.Contains(reqErr.Detail(), "req-1") {
		t.Errorf("Detail() = %q, should include request ID", reqErr.Detail())
	}
}

func TestRecorder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"healthy"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	recorder := metrics.NewRecorder()
	client := NewClient(server.URL)
	client.Recorder = recorder

	_, _ = client.Get(context.Background(), "/health")
	_, _ = client.Post(context.Background(), "/generate", GenerateRequest{})

	got, err := testutil.GatherAndCount(recorder.Registry(), "surveygen_requests_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if got != 2 {
		t.Errorf("requests_total series = %d, want 2", got)
	}
}

func TestTroubleshooting(t *testing.T) {
	if hints := Troubleshooting(&RequestError{Type: ErrTypeTimeout}); len(hints) == 0 {
		t.Error("timeout should have hints")
	}
	if hints := Troubleshooting(&RequestError{Type: ErrTypeServer, StatusCode: 500, RequestID: "abc"}); !strings.Contains(strings.Join(hints, " "), "abc") {
		t.Errorf("5xx hints should mention the request ID: %v", hints)
	}
	if hints := Troubleshooting(context.Canceled); hints != nil {
		t.Errorf("foreign errors should have no hints, got %v", hints)
	}
}

func TestErrorTypeString(t *testing.T) {
	if ErrTypeTimeout.String() != "Timeout" {
		t.Errorf("String() = %q", ErrTypeTimeout.String())
	}
	if ErrorType(42).String() != "ErrorType(42)" {
		t.Errorf("String() = %q", ErrorType(42).String())
	}
}

func TestRequestError_EmptyMessage(t *testing.T) {
	err := &RequestError{}
	if err.Error() != FallbackMessage {
		t.Errorf("Error() = %q, want fallback", err.Error())
	}
}
