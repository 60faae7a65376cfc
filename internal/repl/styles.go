package repl

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	success lipgloss.Style
	failed  lipgloss.Style
	answer  lipgloss.Style
	err     lipgloss.Style
	dim     lipgloss.Style
}

// newStyles renders for w, so output to a pipe or buffer carries no escape
// sequences.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		success: r.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		failed:  r.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true),
		answer:  r.NewStyle().Foreground(lipgloss.Color("#7D56F4")).TabWidth(lipgloss.NoTabConversion),
		err:     r.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}
