package cli

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#2196F3")
	muted  = lipgloss.Color("#8A8F98")
	green  = lipgloss.Color("#8BC34A")
	red    = lipgloss.Color("#E53935")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(green)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	priceStyle   = cellStyle.Foreground(green)
)
