package common

import "charm.land/lipgloss/v2"

// Styles contains all the host styles.
type Styles struct {
	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Status lipgloss.Style

	// Cards by distance from the center.
	Card       lipgloss.Style
	CardActive lipgloss.Style
	CardFar    lipgloss.Style

	Arrow         lipgloss.Style
	ArrowDisabled lipgloss.Style

	PhaseIdle lipgloss.Style
	PhaseBusy lipgloss.Style

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
}

// DefaultStyles returns the Gruvbox styles.
func DefaultStyles() Styles {
	return StylesFor(GruvboxTheme())
}

// StylesFor builds styles from a theme.
func StylesFor(t Theme) Styles {
	c := t.Colors
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.Border).
		Background(c.Card).
		Foreground(c.Foreground).
		Align(lipgloss.Center, lipgloss.Center)
	toast := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	return Styles{
		Title:  lipgloss.NewStyle().Foreground(c.Accent).Bold(true),
		Body:   lipgloss.NewStyle().Foreground(c.Foreground),
		Muted:  lipgloss.NewStyle().Foreground(c.Muted),
		Status: lipgloss.NewStyle().Foreground(c.Muted).Padding(0, 1),

		Card:       card,
		CardActive: card.BorderForeground(c.Accent).Background(c.CardActive).Bold(true),
		CardFar:    card.Foreground(c.Muted).Faint(true),

		Arrow:         lipgloss.NewStyle().Foreground(c.Accent).Bold(true).Padding(0, 1),
		ArrowDisabled: lipgloss.NewStyle().Foreground(c.Border).Padding(0, 1),

		PhaseIdle: lipgloss.NewStyle().Foreground(c.Success),
		PhaseBusy: lipgloss.NewStyle().Foreground(c.Warning),

		ToastInfo:    toast.Foreground(c.Background).Background(c.Info),
		ToastSuccess: toast.Foreground(c.Background).Background(c.Success),
		ToastError:   toast.Foreground(c.Background).Background(c.Error),
		ToastWarning: toast.Foreground(c.Background).Background(c.Warning),
	}
}
