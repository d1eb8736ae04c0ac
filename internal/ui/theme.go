// Package ui provides terminal prompts for devlaunch, used when native
// dialogs are unavailable.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the styles used in the UI.
type Theme struct {
	// Dialog frame
	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style
	Prompt      lipgloss.Style
	AlertBorder lipgloss.Style
	AlertTitle  lipgloss.Style

	// List styles
	SelectedItem   lipgloss.Style
	UnselectedItem lipgloss.Style
	ItemNumber     lipgloss.Style
	DefaultMarker  lipgloss.Style

	// Buttons
	Button       lipgloss.Style
	ActiveButton lipgloss.Style

	// Help bar
	HelpKey  lipgloss.Style
	HelpText lipgloss.Style
	HelpSep  lipgloss.Style

	// Report styles
	Heading lipgloss.Style
	OK      lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// DarkTheme returns a theme for dark terminals.
func DarkTheme() Theme {
	return Theme{
		ModalBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("14")).Padding(0, 2),
		ModalTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")), // Cyan
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")),            // White
		AlertBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 2),
		AlertTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")), // Red

		SelectedItem:   lipgloss.NewStyle().Background(lipgloss.Color("17")).Foreground(lipgloss.Color("15")), // Dark blue bg
		UnselectedItem: lipgloss.NewStyle(),
		ItemNumber:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		DefaultMarker:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // Yellow

		Button:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("7")),
		ActiveButton: lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("17")).Foreground(lipgloss.Color("15")).Bold(true),

		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // Cyan
		HelpText: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		HelpSep:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		OK:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // Lime
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // Yellow
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // Red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// LightTheme returns a theme for light terminals.
func LightTheme() Theme {
	return Theme{
		ModalBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4")).Padding(0, 2),
		ModalTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")), // Blue
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")),            // Black
		AlertBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("1")).Padding(0, 2),
		AlertTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),

		SelectedItem:   lipgloss.NewStyle().Background(lipgloss.Color("252")).Foreground(lipgloss.Color("0")), // Light gray bg
		UnselectedItem: lipgloss.NewStyle(),
		ItemNumber:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		DefaultMarker:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // Dark yellow

		Button:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("240")),
		ActiveButton: lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("252")).Foreground(lipgloss.Color("0")).Bold(true),

		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")), // Blue
		HelpText: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HelpSep:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		OK:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // Dark green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // Dark yellow/brown
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // Red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// DetectTheme returns the theme named by DEVLAUNCH_THEME, falling back to
// the terminal's background color.
func DetectTheme() Theme {
	return GetTheme(os.Getenv("DEVLAUNCH_THEME"))
}

// GetTheme returns the theme based on the theme name. Unknown names follow
// the terminal's background color.
func GetTheme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	}
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}
