// Package compositor draws styled strings onto an ultraviolet screen so the
// carousel frame can be composed from independently positioned layers.
package compositor

import (
	"image/color"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// Text is a styled ANSI string placed at X,Y. Columns outside the screen
// rectangle are clipped, so a card may hang off either edge.
type Text struct {
	X, Y  int
	lines []string
	width int
}

var _ uv.Drawable = (*Text)(nil)

// NewText creates a drawable for content at x,y.
func NewText(content string, x, y int) *Text {
	t := &Text{X: x, Y: y}
	if content == "" {
		return t
	}
	t.lines = strings.Split(content, "\n")
	for _, line := range t.lines {
		t.width = max(t.width, ansi.StringWidth(line))
	}
	return t
}

// Size returns the drawable's width and height in cells.
func (t *Text) Size() (int, int) { return t.width, len(t.lines) }

// Draw implements uv.Drawable.
func (t *Text) Draw(screen uv.Screen, r uv.Rectangle) {
	if len(t.lines) == 0 {
		return
	}
	p := ansi.GetParser()
	defer ansi.PutParser(p)

	var style uv.Style
	var state byte
	for i, line := range t.lines {
		y := t.Y + i
		if y < r.Min.Y || y >= r.Max.Y {
			continue
		}
		x := t.X
		for len(line) > 0 {
			seq, width, n, next := ansi.DecodeSequence(line, state, p)
			if n == 0 {
				break
			}
			switch {
			case width == 0:
				if ansi.Cmd(p.Command()).Final() == 'm' {
					style = applySGR(style, p.Params())
				}
			case x >= r.Min.X && x+width <= r.Max.X:
				cell := getCell()
				cell.Content = seq
				cell.Style = style
				cell.Width = width
				screen.SetCell(x, y, cell)
				putCell(cell)
			}
			if width > 0 {
				x += width
			}
			line = line[n:]
			state = next
		}
	}
}

// applySGR folds one SGR sequence into style. Only the attributes lipgloss
// emits for card rendering are handled.
func applySGR(style uv.Style, params ansi.Params) uv.Style {
	if len(params) == 0 {
		return uv.Style{}
	}
	for i := 0; i < len(params); i++ {
		p, _, _ := params.Param(i, 0)
		switch {
		case p == 0:
			style = uv.Style{}
		case p == 1:
			style.Attrs |= uv.AttrBold
		case p == 2:
			style.Attrs |= uv.AttrFaint
		case p == 3:
			style.Attrs |= uv.AttrItalic
		case p == 7:
			style.Attrs |= uv.AttrReverse
		case p == 22:
			style.Attrs &^= uv.AttrBold | uv.AttrFaint
		case p == 23:
			style.Attrs &^= uv.AttrItalic
		case p == 27:
			style.Attrs &^= uv.AttrReverse
		case p >= 30 && p <= 37:
			style.Fg = ansi.BasicColor(p - 30)
		case p >= 90 && p <= 97:
			style.Fg = ansi.BasicColor(p - 90 + 8)
		case p == 39:
			style.Fg = nil
		case p >= 40 && p <= 47:
			style.Bg = ansi.BasicColor(p - 40)
		case p >= 100 && p <= 107:
			style.Bg = ansi.BasicColor(p - 100 + 8)
		case p == 49:
			style.Bg = nil
		case p == 38 || p == 48:
			c, used := extendedColor(params, i)
			if p == 38 {
				style.Fg = c
			} else {
				style.Bg = c
			}
			i += used
		}
	}
	return style
}

// extendedColor reads a 38/48 color starting at params[i] and returns the
// number of extra params consumed.
func extendedColor(params ansi.Params, i int) (color.Color, int) {
	if i+2 >= len(params) {
		return nil, len(params) - 1 - i
	}
	mode, _, _ := params.Param(i+1, 0)
	switch {
	case mode == 5:
		idx, _, _ := params.Param(i+2, 0)
		return ansi.ExtendedColor(idx), 2
	case mode == 2 && i+4 < len(params):
		r, _, _ := params.Param(i+2, 0)
		g, _, _ := params.Param(i+3, 0)
		b, _, _ := params.Param(i+4, 0)
		return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, 4
	}
	return nil, 1
}
