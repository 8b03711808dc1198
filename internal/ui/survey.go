package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/surveygen/internal/survey"
)

// RenderSurvey formats a generated survey for the terminal.
// Payloads without recognizable fields fall back to their raw JSON.
func RenderSurvey(doc survey.Document, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	title := doc.Title()
	questions := doc.Questions()
	if title == "" && len(questions) == 0 {
		return string(doc)
	}

	wrap := lipgloss.NewStyle().Width(width - 4)

	var b strings.Builder
	if title != "" {
		b.WriteString(SurveyTitleStyle.Render(title))
		b.WriteString("\n")
	}
	if intro := doc.Intro(); intro != "" {
		b.WriteString(wrap.Inherit(SurveyIntroStyle).Render(intro))
		b.WriteString("\n")
	}

	for i, q := range questions {
		b.WriteString("\n")
		b.WriteString(wrap.Inherit(QuestionStyle).Render(fmt.Sprintf("%d. %s", i+1, q.Text)))
		b.WriteString("\n")
		for j, opt := range q.Options {
			b.WriteString(OptionStyle.Render(fmt.Sprintf("%c) %s", 'A'+rune(j%26), opt)))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
