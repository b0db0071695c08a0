package common

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// ThemeID identifies a color theme.
type ThemeID string

const (
	ThemeGruvbox      ThemeID = "gruvbox"
	ThemeTokyoNight   ThemeID = "tokyo-night"
	ThemeGruvboxLight ThemeID = "gruvbox-light"
)

// ThemeColors defines all colors used by the host.
type ThemeColors struct {
	Background color.Color
	Foreground color.Color
	Muted      color.Color
	Border     color.Color
	Accent     color.Color

	Card       color.Color
	CardActive color.Color

	Success color.Color
	Warning color.Color
	Error   color.Color
	Info    color.Color
}

// Theme represents a complete color theme.
type Theme struct {
	ID     ThemeID
	Name   string
	Colors ThemeColors
}

// AvailableThemes returns all predefined themes.
func AvailableThemes() []Theme {
	return []Theme{GruvboxTheme(), TokyoNightTheme(), GruvboxLightTheme()}
}

// GetTheme returns the theme for id, falling back to Gruvbox.
func GetTheme(id ThemeID) Theme {
	for _, t := range AvailableThemes() {
		if t.ID == id {
			return t
		}
	}
	return GruvboxTheme()
}

// GruvboxTheme - warm, retro, earthy tones with orange accent
func GruvboxTheme() Theme {
	return Theme{
		ID:   ThemeGruvbox,
		Name: "Gruvbox",
		Colors: ThemeColors{
			Background: lipgloss.Color("#282828"),
			Foreground: lipgloss.Color("#ebdbb2"),
			Muted:      lipgloss.Color("#928374"),
			Border:     lipgloss.Color("#504945"),
			Accent:     lipgloss.Color("#fe8019"),
			Card:       lipgloss.Color("#3c3836"),
			CardActive: lipgloss.Color("#665c54"),
			Success:    lipgloss.Color("#b8bb26"),
			Warning:    lipgloss.Color("#fabd2f"),
			Error:      lipgloss.Color("#fb4934"),
			Info:       lipgloss.Color("#83a598"),
		},
	}
}

// TokyoNightTheme - muted blues
func TokyoNightTheme() Theme {
	return Theme{
		ID:   ThemeTokyoNight,
		Name: "Tokyo Night",
		Colors: ThemeColors{
			Background: lipgloss.Color("#1a1b26"),
			Foreground: lipgloss.Color("#a9b1d6"),
			Muted:      lipgloss.Color("#565f89"),
			Border:     lipgloss.Color("#292e42"),
			Accent:     lipgloss.Color("#7aa2f7"),
			Card:       lipgloss.Color("#1f2335"),
			CardActive: lipgloss.Color("#33467c"),
			Success:    lipgloss.Color("#9ece6a"),
			Warning:    lipgloss.Color("#e0af68"),
			Error:      lipgloss.Color("#f7768e"),
			Info:       lipgloss.Color("#7dcfff"),
		},
	}
}

// GruvboxLightTheme - light variant
func GruvboxLightTheme() Theme {
	return Theme{
		ID:   ThemeGruvboxLight,
		Name: "Gruvbox Light",
		Colors: ThemeColors{
			Background: lipgloss.Color("#fbf1c7"),
			Foreground: lipgloss.Color("#3c3836"),
			Muted:      lipgloss.Color("#928374"),
			Border:     lipgloss.Color("#d5c4a1"),
			Accent:     lipgloss.Color("#d65d0e"),
			Card:       lipgloss.Color("#f2e5bc"),
			CardActive: lipgloss.Color("#ebdbb2"),
			Success:    lipgloss.Color("#98971a"),
			Warning:    lipgloss.Color("#d79921"),
			Error:      lipgloss.Color("#cc241d"),
			Info:       lipgloss.Color("#458588"),
		},
	}
}
