package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/surveygen/internal/api"
	"github.com/muurk/surveygen/internal/survey"
)

const sampleSurvey = `{
	"survey_name": "Team Feedback",
	"survey_intro": "Tell us how the quarter went.",
	"questions": [
		{"question_text": "How satisfied are you?", "options": ["Very", "Somewhat", "Not at all"]},
		{"question_text": "Anything else?"}
	]
}`

func TestRenderSurvey(t *testing.T) {
	out := RenderSurvey(survey.Document(sampleSurvey), 80)

	for _, want := range []string{
		"Team Feedback",
		"Tell us how the quarter went.",
		"1. How satisfied are you?",
		"A) Very",
		"C) Not at all",
		"2. Anything else?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSurvey() missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderSurvey_UnknownShape(t *testing.T) {
	raw := `{"foo":[1,2,3]}`
	if got := RenderSurvey(survey.Document(raw), 80); got != raw {
		t.Errorf("RenderSurvey() = %q, want raw payload", got)
	}
}

func TestResult_Success(t *testing.T) {
	out := NewSuccessResult("Survey generated").
		SetWidth(80).
		AddDetail("Questions", "3").
		Render()

	for _, want := range []string{"SUCCESS", "Survey generated", "Questions", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}

func TestResult_Failure(t *testing.T) {
	err := &api.RequestError{Type: api.ErrTypeServer, Message: "quota exceeded", StatusCode: 500}
	out := NewFailureResult("Generation failed", err, api.Troubleshooting(err)).
		SetWidth(80).
		Render()

	for _, want := range []string{"FAILED", "Generation failed", "quota exceeded", "Troubleshooting"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}

func TestHeader(t *testing.T) {
	out := NewHeader("Survey Generator", "generate").
		SetWidth(70).
		AddParam("Base URL", "http://localhost:5001/api").
		Render()

	for _, want := range []string{"Survey Generator", "generate", "Base URL"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}

func TestWaitModel_Update(t *testing.T) {
	m := NewWaitModel("Generating survey")
	fixed := m.started.Add(3 * time.Second)
	m.now = func() time.Time { return fixed }

	next, _ := m.Update(stateMsg(survey.State{Pending: true, LastInput: "employee survey"}))
	m = next.(WaitModel)
	if !m.State().Pending {
		t.Fatal("state snapshot not recorded")
	}

	view := m.View()
	if !strings.Contains(view, "Generating survey") || !strings.Contains(view, "employee survey") {
		t.Errorf("View() = %q", view)
	}
	if !strings.Contains(view, "3s") {
		t.Errorf("View() missing elapsed time: %q", view)
	}

	next, cmd := m.Update(doneMsg{})
	m = next.(WaitModel)
	if !m.Done() {
		t.Error("Done() = false after doneMsg")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Errorf("View() after done = %q, want empty", m.View())
	}
}

func TestWaitModel_SpinnerTick(t *testing.T) {
	m := NewWaitModel("x")
	tick := m.spinner.Tick()
	if _, ok := tick.(spinner.TickMsg); !ok {
		t.Fatalf("Tick() = %T, want spinner.TickMsg", tick)
	}
	if _, cmd := m.Update(tick); cmd == nil {
		t.Error("spinner tick should schedule the next tick")
	}
}

type stubGenerator struct {
	env *api.Envelope
	err error
}

func (g stubGenerator) GenerateSurvey(ctx context.Context, requirement string) (*api.Envelope, error) {
	return g.env, g.err
}

func TestRunWithSpinner(t *testing.T) {
	store := survey.NewStore(stubGenerator{
		env: &api.Envelope{Status: api.StatusSuccess, Data: []byte(sampleSurvey)},
	})

	var out bytes.Buffer
	var doc survey.Document
	err := RunWithSpinner(context.Background(), &out, "Generating", store, func() error {
		var err error
		doc, err = store.Generate(context.Background(), "team survey")
		return err
	})
	if err != nil {
		t.Fatalf("RunWithSpinner() error = %v", err)
	}
	if doc.Title() != "Team Feedback" {
		t.Errorf("Title() = %q", doc.Title())
	}
	if store.State().Pending {
		t.Error("store still pending")
	}
}

func TestRunWithSpinner_ReturnsOpError(t *testing.T) {
	wantErr := errors.New("connection refused")
	store := survey.NewStore(stubGenerator{err: wantErr})

	var out bytes.Buffer
	err := RunWithSpinner(context.Background(), &out, "Generating", store, func() error {
		_, err := store.Generate(context.Background(), "x")
		return err
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("RunWithSpinner() error = %v, want %v", err, wantErr)
	}
}

func TestWaitModel_TruncatesLongInput(t *testing.T) {
	long := strings.Repeat("survey ", 20)
	m := NewWaitModel("Generating")

	next, _ := m.Update(stateMsg(survey.State{Pending: true, LastInput: long}))
	view := next.(WaitModel).View()

	if strings.Contains(view, long) {
		t.Error("View() should not show the full requirement")
	}
	if !strings.Contains(view, "...") {
		t.Errorf("View() = %q, want truncated requirement", view)
	}
}
