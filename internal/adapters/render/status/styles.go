package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	account    lipgloss.Style
	detail     lipgloss.Style
	warning    lipgloss.Style
	transient  lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	amount     lipgloss.Style
	limitKey   lipgloss.Style
	limitMeta  lipgloss.Style
	barBracket lipgloss.Style
	barOK      lipgloss.Style
	barWarn    lipgloss.Style
	barOver    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		account:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		transient:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		amount:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		limitKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		limitMeta:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		barOver:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
