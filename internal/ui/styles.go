package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the selection surface.
type Styles struct {
	Header    lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Option    lipgloss.Style
	Muted     lipgloss.Style
	Footer    lipgloss.Style
	Filter    lipgloss.Style
	Border    lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Padding(0, 1),
		TabIdle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Option: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Filter: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}
