package prompt

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.Color("#007AFF")
	successColor   = lipgloss.Color("#34C759")
	subtleColor    = lipgloss.Color("#8E8E93")
	mutedTextColor = lipgloss.Color("#6C6C70")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle()

	cursorStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(mutedTextColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(subtleColor)
)
