package tui

import "github.com/charmbracelet/lipgloss"

const cardWidth = 34

type styles struct {
	Title       lipgloss.Style
	Select      lipgloss.Style
	Focused     lipgloss.Style
	Card        lipgloss.Style
	CardTitle   lipgloss.Style
	Label       lipgloss.Style
	Placeholder lipgloss.Style
	Error       lipgloss.Style
	Empty       lipgloss.Style
	Muted       lipgloss.Style
}

func defaultStyles() styles {
	border := lipgloss.Color("#e5e7eb")
	accent := lipgloss.Color("#2563eb")
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Select:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#d1d5db")).Padding(0, 1),
		Focused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Foreground(accent).Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Width(cardWidth),
		CardTitle:   lipgloss.NewStyle().Bold(true),
		Label:       lipgloss.NewStyle().Bold(true),
		Placeholder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Foreground(border).Width(cardWidth),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b91c1c")),
		Empty:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
	}
}
