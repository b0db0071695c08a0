package common

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/andyrewlee/carousel/internal/messages"
)

const toastDuration = 3 * time.Second

// ToastDismissed is sent when a toast should be dismissed.
type ToastDismissed struct {
	seq int
}

// ToastModel shows one notification at a time.
type ToastModel struct {
	message string
	level   messages.ToastLevel
	seq     int
	styles  Styles
}

// NewToastModel creates a toast model.
func NewToastModel(styles Styles) *ToastModel {
	return &ToastModel{styles: styles}
}

// SetStyles updates the toast styles (for theme changes).
func (m *ToastModel) SetStyles(styles Styles) { m.styles = styles }

// Show displays msg and returns the command that dismisses it. Errors stay up
// longer.
func (m *ToastModel) Show(msg messages.Toast) tea.Cmd {
	m.message = msg.Message
	m.level = msg.Level
	m.seq++
	seq := m.seq
	d := toastDuration
	if msg.Level == messages.ToastError {
		d = 5 * time.Second
	}
	return SafeTick(d, func(time.Time) tea.Msg { return ToastDismissed{seq: seq} })
}

// Update handles dismissal. A stale dismissal from an earlier toast is ignored.
func (m *ToastModel) Update(msg ToastDismissed) {
	if msg.seq == m.seq {
		m.message = ""
	}
}

// Visible reports whether a toast is showing.
func (m *ToastModel) Visible() bool { return m.message != "" }

// View renders the toast.
func (m *ToastModel) View() string {
	if m.message == "" {
		return ""
	}
	var style lipgloss.Style
	icon := "i "
	switch m.level {
	case messages.ToastSuccess:
		style, icon = m.styles.ToastSuccess, "✓ "
	case messages.ToastError:
		style, icon = m.styles.ToastError, "✗ "
	case messages.ToastWarning:
		style, icon = m.styles.ToastWarning, "! "
	default:
		style = m.styles.ToastInfo
	}
	return style.Render(icon + m.message)
}
