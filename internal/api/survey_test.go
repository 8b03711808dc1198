package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/muurk/surveygen/internal/metrics"
)

func TestGenerateSurvey_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s, want /api/generate", r.URL.Path)
		}

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if req.Requirement != "build a customer satisfaction survey" {
			t.Errorf("requirement = %q", req.Requirement)
		}

		w.Write([]byte(`{"status":"success","data":{"title":"CSAT"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	env, err := client.GenerateSurvey(context.Background(), "build a customer satisfaction survey")
	if err != nil {
		t.Fatalf("GenerateSurvey() error = %v", err)
	}

	if !env.OK() {
		t.Errorf("envelope should be OK: %+v", env)
	}
	if string(env.Data) != `{"title":"CSAT"}` {
		t.Errorf("Data = %s", env.Data)
	}
}

func TestGenerateSurvey_LogicalFailureIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"quota exceeded"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	env, err := client.GenerateSurvey(context.Background(), "x")
	if err != nil {
		t.Fatalf("GenerateSurvey() error = %v", err)
	}

	if env.OK() {
		t.Error("envelope should not be OK")
	}
	if env.Message != "quota exceeded" {
		t.Errorf("Message = %q", env.Message)
	}
}

func TestGenerateSurvey_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"html", "<html>index</html>"},
		{"array", `[1,2,3]`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.GenerateSurvey(context.Background(), "x")
			if !IsParseError(err) {
				t.Errorf("error = %v, want parse error", err)
			}
		})
	}
}

func TestGenerateSurvey_ParseErrorIsReportedAsRequestFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>index</html>"))
	}))
	defer server.Close()

	recorder := metrics.NewRecorder()
	client := NewClient(server.URL)
	client.Recorder = recorder
	client.newRequestID = func() string { return "req-parse" }

	_, err := client.GenerateSurvey(context.Background(), "x")
	reqErr, ok := AsRequestError(err)
	if !ok || reqErr.Type != ErrTypeParse {
		t.Fatalf("error = %v, want parse RequestError", err)
	}
	if reqErr.RequestID != "req-parse" {
		t.Errorf("RequestID = %q, want req-parse", reqErr.RequestID)
	}
	if reqErr.Method != http.MethodPost || reqErr.Path != GeneratePath {
		t.Errorf("Method/Path = %s %s", reqErr.Method, reqErr.Path)
	}

	expected := `
# HELP surveygen_requests_total Total number of survey service requests by method, path and outcome
# TYPE surveygen_requests_total counter
surveygen_requests_total{method="POST",outcome="parse",path="/generate"} 1
`
	if err := testutil.GatherAndCompare(recorder.Registry(), strings.NewReader(expected), "surveygen_requests_total"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestHealthCheck_PassThrough(t *testing.T) {
	const payload = `{"status":"healthy","service":"survey API"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/health" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	body, err := client.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
	if string(body) != payload {
		t.Errorf("body = %s, want unchanged payload", body)
	}
}
