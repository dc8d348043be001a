package tui

import "github.com/charmbracelet/lipgloss"

// Color palette: the handful of colors this single-scene browser uses.
var (
	ColorPrimary = lipgloss.Color("#00D4AA")
	ColorMuted   = lipgloss.Color("#565F89")
	ColorBorder  = lipgloss.Color("#414868")
	ColorDanger  = lipgloss.Color("#EF4444")
	ColorSuccess = lipgloss.Color("#10B981")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			PaddingBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0CAF5"))

	BarStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingTop(1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)
)
