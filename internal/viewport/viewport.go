// Package viewport declares the collaborators the engine drives: the scrollable
// container, the item renderer and the offset store.
package viewport

// Behavior selects how ScrollTo moves the offset.
type Behavior int

const (
	BehaviorInstant Behavior = iota
	BehaviorSmooth
)

// Source tags why a scroll notification or check happened.
type Source int

const (
	// SourceScrollTick is a raw scroll event from the container.
	SourceScrollTick Source = iota
	// SourceDrag is an offset write from pointer dragging.
	SourceDrag
	// SourceMomentum is an offset write from the momentum animation.
	SourceMomentum
	// SourceProgram is an explicit check requested by engine code.
	SourceProgram
)

func (s Source) String() string {
	switch s {
	case SourceScrollTick:
		return "scroll"
	case SourceDrag:
		return "drag"
	case SourceMomentum:
		return "momentum"
	case SourceProgram:
		return "program"
	default:
		return "unknown"
	}
}

// Rect is the rendered horizontal geometry of one child.
type Rect struct {
	Left  float64
	Width float64
}

// Center returns the horizontal center of the rect.
func (r Rect) Center() float64 { return r.Left + r.Width/2 }

// Right returns the right edge of the rect.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Style is the visual treatment applied to one rendered child.
type Style struct {
	Scale   float64
	Opacity float64
	ZIndex  int
}

// Viewport is the scrollable container primitive.
type Viewport interface {
	ScrollOffset() float64
	// SetScrollOffset writes the offset instantly, clamped to the physical extent.
	SetScrollOffset(x float64)
	ScrollTo(x float64, behavior Behavior)
	// StopScroll cancels smooth scrolling and native momentum.
	StopScroll()
	// ScrollExtent is the full scrollable content width.
	ScrollExtent() float64
	ClientWidth() float64
	SetSnapEnabled(enabled bool)
	SnapEnabled() bool
	// SetTransform applies a visual translation that does not move the offset.
	SetTransform(x float64)
	Transform() float64
	SetPointerCapture(captured bool)
	// SupportsScrollEnd reports whether a native settle notification exists.
	SupportsScrollEnd() bool
}

// MaxScroll returns the largest reachable offset of v.
func MaxScroll(v Viewport) float64 {
	m := v.ScrollExtent() - v.ClientWidth()
	if m < 0 {
		return 0
	}
	return m
}

// ItemRenderer exposes rendered children. Geometry may be unavailable until a
// child is mounted and measured.
type ItemRenderer interface {
	RenderedCount() int
	ItemGeometry(i int) (Rect, bool)
	ApplyStyle(i int, s Style)
}

// OffsetStore persists one offset per opaque key.
type OffsetStore interface {
	SavedOffset(key string) (float64, bool)
	SaveOffset(key string, offset float64) error
}

// ItemCounter is implemented by renderers that can re-render a new number of
// children on request.
type ItemCounter interface {
	SetItemCount(n int)
}

// Flinger is implemented by viewports with native touch momentum. v is in px
// per frame in offset direction.
type Flinger interface {
	Fling(v float64)
}

// Resizer is implemented by viewports whose width the host controls.
type Resizer interface {
	SetClientWidth(w float64)
}

// AnchorOrigin returns the offset that centers rendered child 0. Renderers
// that do not pad their content to center the first child report a non-zero
// origin. Unmeasured geometry reports 0.
func AnchorOrigin(v Viewport, r ItemRenderer) float64 {
	if v == nil || r == nil {
		return 0
	}
	g, ok := r.ItemGeometry(0)
	if !ok {
		return 0
	}
	return g.Center() - v.ClientWidth()/2
}

// IndexAt returns the fractional rendered index whose anchor sits at offset.
func IndexAt(v Viewport, r ItemRenderer, offset, stride float64) float64 {
	if stride <= 0 {
		return 0
	}
	return (offset - AnchorOrigin(v, r)) / stride
}
