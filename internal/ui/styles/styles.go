// Package styles centralizes lipgloss colors and shared styles for the
// shortcut editor.
package styles

import "github.com/charmbracelet/lipgloss"

// Color tokens.
var (
	TitleColor     = lipgloss.Color("#54A0FF")
	CategoryColor  = lipgloss.Color("#BBBBBB")
	BindingColor   = lipgloss.Color("#73F59F")
	OverrideColor  = lipgloss.Color("#F5D573")
	ErrorColor     = lipgloss.Color("#FF8787")
	WarningColor   = lipgloss.Color("#F5D573")
	MutedColor     = lipgloss.Color("#888888")
	SelectionColor = lipgloss.Color("#FFFFFF")
	BorderColor    = lipgloss.Color("#555555")
)

// Shared styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TitleColor)

	CategoryHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(CategoryColor)

	BindingStyle = lipgloss.NewStyle().
			Foreground(BindingColor)

	OverrideMarkStyle = lipgloss.NewStyle().
				Foreground(OverrideColor)

	SelectionIndicatorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(SelectionColor)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	StatusStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	OverlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)
)
