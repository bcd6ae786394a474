// Package styles defines the terminal styles shared by the timer output.
package styles

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used for announcements and the progress bar.
type Styles struct {
	renderer *lipgloss.Renderer

	// Announcements
	Prompt   lipgloss.Style
	Summary  lipgloss.Style
	Start    lipgloss.Style
	Complete lipgloss.Style
	Finished lipgloss.Style
	Error    lipgloss.Style

	// Progress bar
	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style
	BarLabel  lipgloss.Style
}

// New creates styles bound to the colour profile of out.
// With plain set, every style renders its input unchanged.
func New(out io.Writer, plain bool) *Styles {
	renderer := lipgloss.NewRenderer(out)
	if plain {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		renderer: renderer,

		Prompt:   renderer.NewStyle().Bold(true),
		Summary:  renderer.NewStyle().Foreground(lipgloss.Color("#8aadf4")),
		Start:    renderer.NewStyle().Foreground(lipgloss.Color("#f5a97f")).Bold(true),
		Complete: renderer.NewStyle().Foreground(lipgloss.Color("#a6da95")),
		Finished: renderer.NewStyle().Foreground(lipgloss.Color("#a6da95")).Bold(true),
		Error:    renderer.NewStyle().Foreground(lipgloss.Color("#ed8796")).Bold(true),

		BarFilled: renderer.NewStyle().Foreground(lipgloss.Color("#ed8796")),
		BarEmpty:  renderer.NewStyle(),
		BarLabel:  renderer.NewStyle().Faint(true),
	}
}

// Plain reports whether the styles emit no escape sequences.
func (styles *Styles) Plain() bool {
	return styles.renderer.ColorProfile() == termenv.Ascii
}
