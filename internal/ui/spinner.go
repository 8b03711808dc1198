package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/surveygen/internal/logging"
	"github.com/muurk/surveygen/internal/survey"
)

// stateMsg carries a store snapshot into the program
type stateMsg survey.State

// doneMsg signals that the watched operation returned
type doneMsg struct{}

// WaitModel is a bubbletea model that shows a spinner while a store
// generation is pending.
type WaitModel struct {
	spinner spinner.Model
	label   string
	started time.Time
	state   survey.State
	done    bool
	now     func() time.Time
}

// NewWaitModel creates a waiting indicator with the given label
func NewWaitModel(label string) WaitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = PendingStyle

	return WaitModel{
		spinner: s,
		label:   label,
		started: time.Now(),
		now:     time.Now,
	}
}

// Init starts the spinner animation
func (m WaitModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles spinner ticks, store snapshots and completion
func (m WaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = survey.State(msg)
		return m, nil

	case doneMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the spinner line. It is empty once the operation is done
// so that the final result replaces it.
func (m WaitModel) View() string {
	if m.done {
		return ""
	}

	elapsed := m.now().Sub(m.started).Truncate(time.Second)
	line := fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	if m.state.Pending && m.state.LastInput != "" {
		line += MutedStyle.Render(fmt.Sprintf(" %q", logging.Truncate(m.state.LastInput, 40)))
	}
	return line + MutedStyle.Render(fmt.Sprintf(" (%s)", elapsed)) + "\n"
}

// Done reports whether the model has seen completion
func (m WaitModel) Done() bool {
	return m.done
}

// State returns the last store snapshot the model received
func (m WaitModel) State() survey.State {
	return m.state
}

// RunWithSpinner runs op while a spinner is rendered to out. Store state
// changes are forwarded to the spinner through a subscription. The returned
// error is op's error; a rendering failure is only returned when op succeeded.
func RunWithSpinner(ctx context.Context, out io.Writer, label string, store *survey.Store, op func() error) error {
	p := tea.NewProgram(
		NewWaitModel(label),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	unsubscribe := store.Subscribe(func(s survey.State) {
		p.Send(stateMsg(s))
	})
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		err := op()
		errCh <- err
		p.Send(doneMsg{})
	}()

	_, runErr := p.Run()
	opErr := <-errCh
	if opErr != nil {
		return opErr
	}
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("spinner: %w", runErr)
	}
	return nil
}
