// Package carouselview renders a carousel viewport into terminal cells and
// maps mouse positions back to cards and controls.
package carouselview

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/carousel/internal/carousel"
	"github.com/andyrewlee/carousel/internal/coordinator"
	"github.com/andyrewlee/carousel/internal/teleport"
	"github.com/andyrewlee/carousel/internal/ui/common"
	"github.com/andyrewlee/carousel/internal/ui/compositor"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// Source is the rendered carousel the view reads from.
type Source interface {
	viewport.Viewport
	viewport.ItemRenderer
	StyleOf(i int) viewport.Style
}

// HitKind identifies what a mouse position landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitCard
	HitPrev
	HitNext
	HitMode
	HitPlatform
)

// Hit is the result of a hit test. Index is the rendered card index.
type Hit struct {
	Kind  HitKind
	Index int
}

const (
	titleRows    = 1
	controlRows  = 1
	statusRows   = 1
	minCardRows  = 3
	controlsX    = 1
	chromeRows   = titleRows + controlRows + statusRows + 2
	activeCutoff = 0.95
	farCutoff    = 0.7
)

var controlIDs = map[HitKind]string{
	HitPrev:     "prev",
	HitNext:     "next",
	HitMode:     "mode",
	HitPlatform: "platform",
}

// Box is a card's cell rectangle on screen.
type Box struct {
	Index  int
	X, Y   int
	Width  int
	Height int
	Style  viewport.Style
}

// Contains reports whether the cell x,y is inside the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Model renders cards. It holds no carousel state of its own.
type Model struct {
	zone      *zone.Manager
	styles    common.Styles
	pxPerCell float64
	width     int
	height    int
	label     func(logical int) string
	// controlsY is the screen row of the control bar.
	controlsY int
}

// New creates a view. z may be nil to disable control click zones.
func New(z *zone.Manager, styles common.Styles, pxPerCell float64) *Model {
	if pxPerCell <= 0 {
		pxPerCell = 1
	}
	return &Model{
		zone:      z,
		styles:    styles,
		pxPerCell: pxPerCell,
		label:     func(i int) string { return fmt.Sprintf("Item %d", i+1) },
	}
}

// SetStyles updates styles (for theme changes).
func (m *Model) SetStyles(s common.Styles) { m.styles = s }

// SetLabel overrides card labels.
func (m *Model) SetLabel(fn func(logical int) string) {
	if fn != nil {
		m.label = fn
	}
}

// SetSize sets the terminal size in cells.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.controlsY = m.height - statusRows - controlRows
}

// ClientWidth is the viewport width in px.
func (m *Model) ClientWidth() float64 { return float64(m.width) * m.pxPerCell }

// PixelX converts a cell column to a px position in the viewport.
func (m *Model) PixelX(x int) float64 { return (float64(x) + 0.5) * m.pxPerCell }

func (m *Model) cardRows() int {
	return max(minCardRows, m.height-chromeRows)
}

// Boxes returns the on-screen card boxes, lowest z-index first.
func (m *Model) Boxes(src Source) []Box {
	if src == nil || m.width <= 0 {
		return nil
	}
	offset := src.ScrollOffset() - src.Transform()
	client := src.ClientWidth()
	rows := m.cardRows()
	top := titleRows + 1

	var boxes []Box
	for i := 0; i < src.RenderedCount(); i++ {
		r, ok := src.ItemGeometry(i)
		if !ok {
			continue
		}
		left := r.Left - offset
		if left+r.Width < 0 || left > client {
			continue
		}
		st := src.StyleOf(i)
		scale := st.Scale
		if scale <= 0 {
			scale = 1
		}
		x0 := int(math.Round(left / m.pxPerCell))
		x1 := int(math.Round((left + r.Width) / m.pxPerCell))
		h := max(minCardRows, int(math.Round(float64(rows)*scale)))
		boxes = append(boxes, Box{
			Index:  i,
			X:      x0,
			Y:      top + (rows-h)/2,
			Width:  max(1, x1-x0),
			Height: h,
			Style:  st,
		})
	}
	// Stable insertion sort keeps equal z-indices in document order.
	for i := 1; i < len(boxes); i++ {
		for j := i; j > 0 && boxes[j].Style.ZIndex < boxes[j-1].Style.ZIndex; j-- {
			boxes[j], boxes[j-1] = boxes[j-1], boxes[j]
		}
	}
	return boxes
}

// HitTest maps a cell to a card or control. Cards on top win.
func (m *Model) HitTest(src Source, x, y int) Hit {
	if y == m.controlsY && m.zone != nil {
		for kind, id := range controlIDs {
			z := m.zone.Get(id)
			if z == nil || z.IsZero() {
				continue
			}
			if col := x - controlsX; col >= z.StartX && col <= z.EndX {
				return Hit{Kind: kind}
			}
		}
	}
	boxes := m.Boxes(src)
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].Contains(x, y) {
			return Hit{Kind: HitCard, Index: boxes[i].Index}
		}
	}
	return Hit{Kind: HitNone}
}

func (m *Model) cardStyle(st viewport.Style) lipgloss.Style {
	switch {
	case st.Opacity >= activeCutoff:
		return m.styles.CardActive
	case st.Opacity > 0 && st.Opacity < farCutoff:
		return m.styles.CardFar
	default:
		return m.styles.Card
	}
}

func (m *Model) renderCard(b Box, logical int) string {
	inner := max(0, b.Width-2)
	label := runewidth.Truncate(m.label(logical), inner, "…")
	return m.cardStyle(b.Style).
		Width(b.Width).
		Height(b.Height).
		Render(label)
}

// Compose draws the whole frame onto canvas.
func (m *Model) Compose(canvas *lipgloss.Canvas, src Source, st carousel.State, hints string) {
	canvas.Compose(compositor.NewText(m.title(st), 1, 0))
	for _, b := range m.Boxes(src) {
		logical := b.Index
		if st.Buffer.Items > 0 {
			logical = st.Buffer.LogicalIndex(b.Index)
		}
		canvas.Compose(compositor.NewText(m.renderCard(b, logical), b.X, b.Y))
	}
	canvas.Compose(compositor.NewText(m.controls(st), controlsX, m.controlsY))
	status := m.Status(st)
	if hints != "" {
		status += "  " + hints
	}
	canvas.Compose(compositor.NewText(m.styles.Status.Render(status), 0, m.height-statusRows))
}

func (m *Model) title(st carousel.State) string {
	mode := "loop"
	if !st.Infinite {
		mode = "finite"
	}
	return m.styles.Title.Render("carousel") + m.styles.Muted.Render(fmt.Sprintf("  %d items · %s", st.Items, mode))
}

func (m *Model) controls(st carousel.State) string {
	arrow := m.styles.Arrow
	if st.Phase == coordinator.Bouncing {
		arrow = m.styles.ArrowDisabled
	}
	mode := "[loop]"
	if !st.Infinite {
		mode = "[finite]"
	}
	platform := "[pointer]"
	if st.Platform == teleport.PlatformTouch {
		platform = "[touch]"
	}
	parts := []string{
		m.mark(HitPrev, arrow.Render("◀")),
		m.mark(HitNext, arrow.Render("▶")),
		m.mark(HitMode, m.styles.Body.Render(mode)),
		m.mark(HitPlatform, m.styles.Body.Render(platform)),
	}
	line := strings.Join(parts, " ")
	if m.zone != nil {
		line = m.zone.Scan(line)
	}
	return line
}

func (m *Model) mark(kind HitKind, s string) string {
	if m.zone == nil {
		return s
	}
	return m.zone.Mark(controlIDs[kind], s)
}

// Status renders the one-line engine summary.
func (m *Model) Status(st carousel.State) string {
	phase := m.styles.PhaseIdle
	if st.Phase != coordinator.Idle {
		phase = m.styles.PhaseBusy
	}
	active := "-"
	if st.Active >= 0 {
		active = fmt.Sprintf("%d", st.Active+1)
	}
	return fmt.Sprintf("%s  item %s  offset %.0f  teleports %d  %s",
		phase.Render(st.Phase.String()), active, st.Offset, st.Teleports.Total(), st.Gesture)
}
