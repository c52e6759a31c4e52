// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles provides styled output helpers for the CLI. Styles are bound to a
// renderer for the destination writer so that colors are dropped when the
// writer is not a terminal.
type Styles struct {
	renderer *lipgloss.Renderer
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		renderer: lipgloss.NewRenderer(w),
	}
}

func (s *Styles) render(text string, color string, bold bool) string {
	style := s.renderer.NewStyle().Bold(bold)
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}
	return style.Render(text)
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.render(text, "2", true)
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.render(text, "1", true)
}

// FilePath returns a styled file path (cyan).
func (s *Styles) FilePath(text string) string {
	return s.render(text, "6", false)
}

// Account returns a styled account or category name (yellow).
func (s *Styles) Account(text string) string {
	return s.render(text, "3", false)
}

// Amount returns a styled amount (magenta).
func (s *Styles) Amount(text string) string {
	return s.render(text, "5", false)
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.render(text, "", true)
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.renderer.NewStyle().Faint(true).Render(text)
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.render(text, "3", true)
}

// OverBudget styles a spent amount that exceeds its budget (red).
func (s *Styles) OverBudget(text string) string {
	return s.render(text, "1", false)
}

// UnderBudget styles a spent amount within its budget (green).
func (s *Styles) UnderBudget(text string) string {
	return s.render(text, "2", false)
}
