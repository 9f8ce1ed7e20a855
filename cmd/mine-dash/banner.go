package main

import "github.com/charmbracelet/lipgloss"

// banner is rendered without color when stdout is not a terminal or NO_COLOR is set.
func banner() string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214")).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("39")).
		Padding(0, 2)
	return style.Render("⛏  MineFlow · dashboard de acarreo")
}
