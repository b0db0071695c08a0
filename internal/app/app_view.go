package app

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/carousel/internal/perf"
	"github.com/andyrewlee/carousel/internal/ui/common"
	"github.com/andyrewlee/carousel/internal/ui/compositor"
)

// Synchronized output (mode 2026) keeps a frame from tearing.
const (
	syncBegin = "\x1b[?2026h"
	syncEnd   = "\x1b[?2026l"
)

// View implements tea.Model.
func (a *App) View() tea.View {
	defer perf.Time("view")()

	view := tea.View{
		AltScreen: true,
		MouseMode: tea.MouseModeCellMotion,
	}
	switch {
	case a.quitting:
		view.SetContent("Goodbye!\n")
		return view
	case !a.ready:
		view.SetContent("Loading...")
		return view
	}

	canvas := a.canvasFor(a.width, a.height)
	a.view.Compose(canvas, a.sim, a.car.Snapshot(), a.hints())
	if a.showHelp {
		overlay := a.helpOverlay()
		w, h := lipgloss.Width(overlay), lipgloss.Height(overlay)
		canvas.Compose(compositor.NewText(overlay, max(0, (a.width-w)/2), max(0, (a.height-h)/2)))
	}
	if a.toast.Visible() {
		t := a.toast.View()
		canvas.Compose(compositor.NewText(t, max(0, a.width-ansi.StringWidth(t)-1), 0))
	}
	view.SetContent(syncBegin + canvas.Render() + syncEnd)
	return view
}

func (a *App) canvasFor(width, height int) *lipgloss.Canvas {
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}
	if a.canvas == nil {
		a.canvas = lipgloss.NewCanvas(width, height)
	} else if a.canvas.Width() != width || a.canvas.Height() != height {
		a.canvas.Resize(width, height)
	}
	a.canvas.Clear()
	return a.canvas
}

func hint(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}

func (a *App) hints() string {
	if !a.config.UI.ShowKeymapHints {
		return ""
	}
	parts := make([]string, 0, 4)
	for _, b := range a.keymap.ShortHelp() {
		parts = append(parts, hint(b))
	}
	return a.styles.Muted.Render(strings.Join(parts, " · "))
}

func (a *App) helpOverlay() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	for _, col := range a.keymap.FullHelp() {
		b.WriteString("\n")
		for _, k := range col {
			b.WriteString("\n")
			h := k.Help()
			b.WriteString(a.styles.Body.Render(padRight(h.Key, 12)) + a.styles.Muted.Render(h.Desc))
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(common.GetTheme(common.ThemeID(a.config.UI.Theme)).Colors.Accent).
		Padding(1, 2).
		Render(b.String())
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
