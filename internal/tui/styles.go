package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	busyStyle     = lipgloss.NewStyle().Faint(true).Italic(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	borderColor   = lipgloss.Color("8")

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// applyTheme adjusts the palette for the configured theme name.
func applyTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		titleStyle = titleStyle.Foreground(lipgloss.Color("13"))
		accentStyle = accentStyle.Foreground(lipgloss.Color("14"))
		pendingStyle = pendingStyle.Foreground(lipgloss.Color("11"))
		borderColor = lipgloss.Color("13")
		boxChecked, boxUnchecked = "◼", "◻"
	case "mono":
		lipgloss.SetColorProfile(termenv.Ascii)
		boxChecked, boxUnchecked = "[x]", "[ ]"
	}
}

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)
	return border.Render(inner)
}
