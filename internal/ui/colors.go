package ui

import "github.com/charmbracelet/lipgloss"

// Colors match the dashboard stylesheet variables (--wb-primary and friends).
const (
	colorPrimary = lipgloss.Color("#1565c0")
	colorSuccess = lipgloss.Color("#2e7d32")
	colorError   = lipgloss.Color("#c62828")
	colorMuted   = lipgloss.Color("#6b7280")
)

// palette holds the [lipgloss.Style] values shared by the check view and [Report].
type palette struct {
	heading lipgloss.Style
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	help    lipgloss.Style
}

var styles = newPalette()

func newPalette() palette {
	heading := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	return palette{
		heading: heading,
		title:   heading.MarginBottom(1),
		ok:      lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
		err:     lipgloss.NewStyle().Bold(true).Foreground(colorError),
		help:    lipgloss.NewStyle().Italic(true).Foreground(colorMuted),
	}
}

// mark prefixes name with a pass or fail glyph in the matching color.
func (p palette) mark(name string, err error) string {
	if err != nil {
		return p.err.Render("✗ " + name)
	}
	return p.ok.Render("✓ " + name)
}
