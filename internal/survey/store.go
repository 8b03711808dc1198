package survey

import (
	"context"
	"sync"
	"time"

	"github.com/muurk/surveygen/internal/api"
	"github.com/muurk/surveygen/internal/logging"
	"github.com/muurk/surveygen/internal/metrics"
)

// Generator is the part of the HTTP adapter the store needs.
// *api.Client satisfies it.
type Generator interface {
	GenerateSurvey(ctx context.Context, requirement string) (*api.Envelope, error)
}

// Phase is the lifecycle position of the current generation
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSuccess
	PhaseFailed
)

// String returns a human-readable name for the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the store's fields.
type State struct {
	Pending      bool     // A generation is in flight
	ErrorMessage string   // Message of the last failed generation
	Result       Document // Payload of the last successful generation, or a local edit
	Editing      bool     // Edit mode toggle for consumers
	LastInput    string   // Requirement of the last Generate call
}

// Phase derives the lifecycle phase from the fields
func (s State) Phase() Phase {
	switch {
	case s.Pending:
		return PhasePending
	case s.ErrorMessage != "":
		return PhaseFailed
	case !s.Result.IsZero():
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// Store tracks the lifecycle of survey generation for its consumers.
//
// Only the most recent Generate call (or Reset) owns the state: when calls
// overlap, an older call that settles later returns its own outcome to its
// caller but leaves the fields untouched. Store is safe for concurrent use.
type Store struct {
	gen      Generator
	recorder *metrics.Recorder

	mu    sync.Mutex
	state State
	token uint64 // identifies the call that currently owns the state

	// deliverMu serializes subscriber delivery so callbacks observe
	// snapshots in order; subMu guards the subscriber set and is never
	// held while a callback runs
	deliverMu   sync.Mutex
	subMu       sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int
}

// Option configures a Store
type Option func(*Store)

// WithRecorder reports generation metrics to r
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// NewStore creates a store in the idle state
func NewStore(gen Generator, opts ...Option) *Store {
	s := &Store{
		gen:         gen,
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current fields.
// The snapshot owns its Result bytes.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state
	snapshot.Result = s.state.Result.Clone()
	return snapshot
}

// Subscribe registers fn to be called with a snapshot after every change.
// Callbacks run on the goroutine that made the change and must not call
// the store's mutating methods; they may unsubscribe. The returned function
// unsubscribes and is safe to call more than once.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.subMu.Lock()
	callbacks := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		callbacks = append(callbacks, fn)
	}
	s.subMu.Unlock()

	if len(callbacks) == 0 {
		return
	}
	snapshot := s.State()
	for _, fn := range callbacks {
		fn(snapshot)
	}
}

// Generate asks the service for a survey matching input.
//
// It marks the store pending, clears the previous result and error and
// records input for Regenerate. On a "success" envelope the data becomes the
// result. Any other status fails with *GenerationError; adapter failures are
// returned unchanged. Every failure is also stored in ErrorMessage. Pending
// is cleared when the call settles, whichever way it exits.
func (s *Store) Generate(ctx context.Context, input string) (doc Document, err error) {
	token := s.begin(input)
	start := time.Now()

	defer func() {
		s.settle(token, doc, err)
		s.recorder.ObserveGeneration(outcome(err), time.Since(start))
		logging.LogGeneration(input, outcome(err), time.Since(start), err)
	}()

	env, err := s.gen.GenerateSurvey(ctx, input)
	if err != nil {
		return nil, err
	}

	if env == nil {
		return nil, &GenerationError{}
	}
	if !env.OK() {
		return nil, &GenerationError{Message: env.Message}
	}

	return Document(env.Data), nil
}

// Regenerate repeats Generate with the last input.
// It fails with ErrNoInput when Generate has never been called.
func (s *Store) Regenerate(ctx context.Context) (Document, error) {
	s.mu.Lock()
	input := s.state.LastInput
	s.mu.Unlock()

	if input == "" {
		return nil, ErrNoInput
	}
	return s.Generate(ctx, input)
}

// UpdateSurvey replaces the result with a locally edited document
func (s *Store) UpdateSurvey(doc Document) {
	s.mu.Lock()
	s.state.Result = doc.Clone()
	s.mu.Unlock()
	s.notify()
}

// ToggleEditMode flips the Editing flag
func (s *Store) ToggleEditMode() {
	s.mu.Lock()
	s.state.Editing = !s.state.Editing
	s.mu.Unlock()
	s.notify()
}

// Reset returns every field to its initial value.
// Generations still in flight no longer own the state afterwards.
func (s *Store) Reset() {
	s.mu.Lock()
	s.token++
	s.state = State{}
	s.mu.Unlock()
	s.notify()
}

// begin claims the state for a new call and returns its token
func (s *Store) begin(input string) uint64 {
	s.mu.Lock()
	s.token++
	token := s.token
	s.state.Pending = true
	s.state.ErrorMessage = ""
	s.state.Result = nil
	s.state.LastInput = input
	s.mu.Unlock()

	s.notify()
	return token
}

// settle records the outcome of the call holding token, if it still owns the state
func (s *Store) settle(token uint64, doc Document, err error) {
	s.mu.Lock()
	if token != s.token {
		s.mu.Unlock()
		logging.Debug("Discarding superseded generation result")
		return
	}

	s.state.Pending = false
	if err != nil {
		s.state.ErrorMessage = errorMessage(err)
		s.state.Result = nil
	} else {
		s.state.ErrorMessage = ""
		s.state.Result = doc.Clone()
	}
	s.mu.Unlock()

	s.notify()
}
