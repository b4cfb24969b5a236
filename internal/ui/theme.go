package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the Lip Gloss styles used to draw a frame.
type Theme struct {
	Title     lipgloss.Style
	Section   lipgloss.Style
	Pending   lipgloss.Style
	Done      lipgloss.Style
	Countdown lipgloss.Style
	Overdue   lipgloss.Style
	Panel     lipgloss.Style
	Field     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Empty     lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Section:   lipgloss.NewStyle().Bold(true).Underline(true),
		Pending:   lipgloss.NewStyle(),
		Done:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Countdown: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Overdue:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		Field:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Empty:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
	}
}
