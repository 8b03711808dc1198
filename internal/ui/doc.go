// Package ui provides terminal output for the surveygen CLI: lipgloss
// header and result boxes, a renderer for generated surveys, and a
// bubbletea spinner that follows a survey store while a generation is
// pending.
package ui
