package compositor

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

type bufferScreen struct {
	*uv.Buffer
}

type testWidth struct{}

func (testWidth) StringWidth(s string) int { return ansi.StringWidth(s) }

func (s *bufferScreen) WidthMethod() uv.WidthMethod { return testWidth{} }

func newScreen(w, h int) *bufferScreen {
	return &bufferScreen{Buffer: uv.NewBuffer(w, h)}
}

func TestTextDrawsStyledCells(t *testing.T) {
	screen := newScreen(6, 2)
	text := NewText("\x1b[1mab\x1b[0mc\nxy", 1, 0)
	text.Draw(screen, screen.Bounds())

	if w, h := text.Size(); w != 3 || h != 2 {
		t.Fatalf("size = %dx%d, want 3x2", w, h)
	}
	a := screen.CellAt(1, 0)
	if a == nil || a.Content != "a" || a.Style.Attrs&uv.AttrBold == 0 {
		t.Fatalf("cell(1,0) = %+v, want bold a", a)
	}
	c := screen.CellAt(3, 0)
	if c == nil || c.Content != "c" || c.Style.Attrs&uv.AttrBold != 0 {
		t.Fatalf("cell(3,0) = %+v, want plain c", c)
	}
	if y := screen.CellAt(2, 1); y == nil || y.Content != "y" {
		t.Fatalf("cell(2,1) = %+v, want y", y)
	}
}

func TestTextClipsOffscreenColumns(t *testing.T) {
	screen := newScreen(3, 1)
	NewText("abcdef", -2, 0).Draw(screen, screen.Bounds())
	got := ""
	for x := 0; x < 3; x++ {
		got += screen.CellAt(x, 0).Content
	}
	if got != "cde" {
		t.Fatalf("row = %q, want cde", got)
	}
}

func TestApplySGRColors(t *testing.T) {
	p := ansi.GetParser()
	defer ansi.PutParser(p)
	var state byte
	seq := "\x1b[38;2;10;20;30;48;5;200m"
	_, _, _, _ = ansi.DecodeSequence(seq, state, p)
	style := applySGR(uv.Style{}, p.Params())
	if style.Fg == nil || style.Bg == nil {
		t.Fatalf("style = %+v, want fg and bg set", style)
	}
	r, g, b, _ := style.Fg.RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Fatalf("fg = %d,%d,%d, want 10,20,30", r>>8, g>>8, b>>8)
	}
}
