package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorNavy  = lipgloss.Color("17")
	ColorWhite = lipgloss.Color("15")
	ColorGray  = lipgloss.Color("244")
	ColorBlue  = lipgloss.Color("39")
	ColorGreen = lipgloss.Color("42")
	ColorRed   = lipgloss.Color("196")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	errorButtonStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Background(ColorRed).
				Bold(true).
				Padding(0, 2)

	refreshStripStyle = lipgloss.NewStyle().
				Foreground(ColorBlue).
				Italic(true)

	statusLineStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite)
)
