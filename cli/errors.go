package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	issues "github.com/robinvdvleuten/jointledger/errors"
)

var (
	errMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders ledger issues with terminal styling: the message in
// red and the offending transaction dimmed below it.
type ErrorRenderer struct {
	text *issues.TextFormatter
}

// NewErrorRenderer creates a renderer using the default text formatter.
func NewErrorRenderer() *ErrorRenderer {
	return &ErrorRenderer{text: issues.NewTextFormatter(nil)}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	plain := strings.TrimRight(r.text.Format(err), "\n")
	message, context, found := strings.Cut(plain, "\n\n")

	var buf strings.Builder
	buf.WriteString(errMessageStyle.Render(message))
	if found {
		buf.WriteString("\n\n")
		for i, line := range strings.Split(context, "\n") {
			if i > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(errContextStyle.Render(line))
		}
	}
	return buf.String()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}
