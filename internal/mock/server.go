package mock

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/surveygen/internal/logging"
)

// RequestLog records one request received by the stub
type RequestLog struct {
	Timestamp   time.Time
	Method      string
	Path        string
	RequestID   string
	Requirement string
	Status      int
}

// Server is a stand-in for the survey generation service.
type Server struct {
	scenario   *Scenario
	prefix     string
	httpServer *http.Server
	listener   net.Listener

	mu   sync.Mutex
	next int // index of the next scripted response
	logs []RequestLog
}

// NewServer creates a stub serving scenario under prefix (e.g. "/api")
func NewServer(scenario *Scenario, prefix string) *Server {
	if scenario == nil {
		scenario = DefaultScenario()
	}
	return &Server{
		scenario: scenario,
		prefix:   strings.TrimRight(prefix, "/"),
	}
}

// Handler returns the HTTP handler for the stub's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.prefix+"/health", s.handleHealth)
	mux.HandleFunc(s.prefix+"/generate", s.handleGenerate)
	return mux
}

// Start listens on addr and serves in the background.
// Use Addr to learn the bound address when addr ends in ":0".
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Stub server error", zap.Error(err))
		}
	}()

	logging.Info("Stub server listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the listening address, or "" before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Requests returns a copy of the request log
func (s *Server) Requests() []RequestLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeEnvelope(w, http.StatusMethodNotAllowed, map[string]any{"status": "error", "message": "method not allowed"})
		s.record(r, "", http.StatusMethodNotAllowed)
		return
	}

	health := s.scenario.Health
	if health == nil {
		health = map[string]any{"status": "healthy"}
	}
	writeEnvelope(w, http.StatusOK, health)
	s.record(r, "", http.StatusOK)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeEnvelope(w, http.StatusMethodNotAllowed, map[string]any{"status": "error", "message": "method not allowed"})
		s.record(r, "", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Requirement *string `json:"requirement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Requirement == nil {
		writeEnvelope(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "missing required parameter: requirement"})
		s.record(r, "", http.StatusBadRequest)
		return
	}

	requirement := strings.TrimSpace(*body.Requirement)
	if requirement == "" {
		writeEnvelope(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "requirement must not be empty"})
		s.record(r, "", http.StatusBadRequest)
		return
	}

	resp := s.nextResponse()
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			s.record(r, requirement, 0)
			return
		}
	}

	envelope := map[string]any{"status": resp.Status}
	if resp.Data != nil {
		envelope["data"] = resp.Data
	}
	if resp.Message != "" {
		envelope["message"] = resp.Message
	}

	writeEnvelope(w, resp.httpStatus(), envelope)
	s.record(r, requirement, resp.httpStatus())
}

func (s *Server) nextResponse() Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := s.scenario.Responses[s.next]
	if s.next < len(s.scenario.Responses)-1 {
		s.next++
	}
	return resp
}

func (s *Server) record(r *http.Request, requirement string, status int) {
	entry := RequestLog{
		Timestamp:   time.Now(),
		Method:      r.Method,
		Path:        r.URL.Path,
		RequestID:   r.Header.Get("X-Request-ID"),
		Requirement: requirement,
		Status:      status,
	}

	s.mu.Lock()
	s.logs = append(s.logs, entry)
	s.mu.Unlock()

	logging.Info("Stub request",
		zap.String("method", entry.Method),
		zap.String("path", entry.Path),
		zap.String("request_id", entry.RequestID),
		zap.Int("status", entry.Status),
	)
}

func writeEnvelope(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
