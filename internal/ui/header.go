package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header represents a command header box
type Header struct {
	Title   string   // e.g., "Survey Generator"
	Command string   // e.g., "generate"
	Params  []Detail // Displayed in order
	Width   int      // Terminal width (for responsive sizing)
}

// NewHeader creates a new command header
func NewHeader(title, command string) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Width:   GetTerminalWidth(),
	}
}

// AddParam adds a parameter line
func (h *Header) AddParam(key, value string) *Header {
	h.Params = append(h.Params, Detail{Key: key, Value: value})
	return h
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{HeaderStyle.Render(h.Title)}
	if h.Command != "" {
		lines = append(lines, MutedStyle.Render("Command: "+h.Command))
	}
	if len(h.Params) > 0 {
		lines = append(lines, "")
		for _, p := range h.Params {
			lines = append(lines, fmt.Sprintf("%s %s",
				ResultKeyStyle.Render(p.Key+":"),
				ResultValueStyle.Render(p.Value)))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
