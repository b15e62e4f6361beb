package main

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual styling for the helix dashboard.
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
}

// DefaultTheme returns the default theme for helix dash.
func DefaultTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("12"),  // Blue
		Success: lipgloss.Color("10"),  // Green
		Warning: lipgloss.Color("11"),  // Yellow
		Error:   lipgloss.Color("9"),   // Red
		Muted:   lipgloss.Color("240"), // Gray
	}
}

// Styles holds the pre-built lipgloss styles derived from a Theme.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Busy   lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Header: lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Cell:   lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(theme.Muted),
		Good:   lipgloss.NewStyle().Foreground(theme.Success),
		Bad:    lipgloss.NewStyle().Foreground(theme.Error),
		Busy:   lipgloss.NewStyle().Foreground(theme.Warning),
	}
}
