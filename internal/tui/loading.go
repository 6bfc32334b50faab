package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func newSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Spinner{Frames: spinnerFrames, FPS: 120 * time.Millisecond}),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorBlue)),
	)
}

// renderLoadingPlaceholder renders the centered indicator shown while a
// manual retry is in flight.
func renderLoadingPlaceholder(frame string, width, height int) string {
	text := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true).
		Render(frame + " Loading...")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// renderRefreshStrip renders the one-line refresh control shown above the
// list while a pull-to-refresh is in flight.
func renderRefreshStrip(frame string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, refreshStripStyle.Render(frame+" Refreshing..."))
}

// renderErrorAffordance renders the inline error with its retry hint.
func renderErrorAffordance(message string, width, height int) string {
	button := errorButtonStyle.Render(message)
	hint := dimStyle.Render("press enter or click to retry")
	block := lipgloss.JoinVertical(lipgloss.Center, button, "", hint)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

// renderEmptyPlaceholder renders the no-error, zero-item body.
func renderEmptyPlaceholder(width, height int) string {
	text := dimStyle.Render("No items. Press r to refresh.")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}
