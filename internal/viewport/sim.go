package viewport

import (
	"math"
	"time"

	"github.com/andyrewlee/carousel/internal/ease"
	"github.com/andyrewlee/carousel/internal/loop"
)

// SimConfig describes the simulated container and its children.
type SimConfig struct {
	ClientWidth float64
	CardWidth   float64
	Gap         float64
	// Padding is the leading and trailing inset. Negative means auto: half the
	// difference between client and card width, so offset i*stride centers item i.
	Padding float64
	// Drift is added to every child's pitch to mimic sub-pixel layout error.
	Drift float64
	// NativeScrollEnd enables the settle notification.
	NativeScrollEnd bool

	SmoothPxPerMs float64
	SmoothMin     time.Duration
	SmoothMax     time.Duration
	// FlingFriction is the per-frame decay of native touch momentum.
	FlingFriction float64
	// FlingStop is the speed in px/frame below which native momentum settles.
	FlingStop float64
}

// DefaultSimConfig returns a desktop-sized container with 280px cards.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		ClientWidth:     1200,
		CardWidth:       280,
		Gap:             24,
		Padding:         -1,
		NativeScrollEnd: true,
		SmoothPxPerMs:   1.5,
		SmoothMin:       180 * time.Millisecond,
		SmoothMax:       600 * time.Millisecond,
		FlingFriction:   0.95,
		FlingStop:       0.5,
	}
}

type simAnim struct {
	frame loop.FrameID
	from  float64
	to    float64
	start time.Time
	dur   time.Duration
}

// Sim is an in-memory scroll container with children laid out in a row.
// It implements Viewport and ItemRenderer on top of a loop.Scheduler.
type Sim struct {
	cfg   SimConfig
	sched loop.Scheduler

	count     int
	ready     bool
	offset    float64
	transform float64
	snap      bool
	captured  bool
	styles    []Style
	applied   int

	anim      *simAnim
	flingID   loop.FrameID
	flingV    float64
	flingLast time.Time

	dispatchID     loop.FrameID
	pendingScroll  bool
	pendingSettled bool

	onScroll    func(Source)
	onScrollEnd func()
}

var (
	_ Viewport     = (*Sim)(nil)
	_ ItemRenderer = (*Sim)(nil)
	_ ItemCounter  = (*Sim)(nil)
	_ Flinger      = (*Sim)(nil)
	_ Resizer      = (*Sim)(nil)
)

// NewSim creates a container with count children.
func NewSim(sched loop.Scheduler, cfg SimConfig, count int) *Sim {
	def := DefaultSimConfig()
	if cfg.SmoothPxPerMs <= 0 {
		cfg.SmoothPxPerMs = def.SmoothPxPerMs
	}
	if cfg.SmoothMin <= 0 {
		cfg.SmoothMin = def.SmoothMin
	}
	if cfg.SmoothMax <= 0 {
		cfg.SmoothMax = def.SmoothMax
	}
	if cfg.FlingFriction <= 0 || cfg.FlingFriction >= 1 {
		cfg.FlingFriction = def.FlingFriction
	}
	if cfg.FlingStop <= 0 {
		cfg.FlingStop = def.FlingStop
	}
	s := &Sim{cfg: cfg, sched: sched, snap: true, ready: true}
	s.SetItemCount(count)
	return s
}

// OnScroll registers the scroll listener. Notifications are coalesced per frame.
func (s *Sim) OnScroll(fn func(Source)) { s.onScroll = fn }

// OnScrollEnd registers the settle listener.
func (s *Sim) OnScrollEnd(fn func()) { s.onScrollEnd = fn }

// SetItemCount re-renders count children and drops applied styles.
func (s *Sim) SetItemCount(count int) {
	if count < 0 {
		count = 0
	}
	s.count = count
	s.styles = make([]Style, count)
	s.offset = clamp(s.offset, 0, s.maxScroll())
}

// SetReady toggles whether children report geometry.
func (s *Sim) SetReady(ready bool) { s.ready = ready }

// SetClientWidth resizes the container.
func (s *Sim) SetClientWidth(w float64) {
	if w < 0 {
		w = 0
	}
	s.cfg.ClientWidth = w
	s.offset = clamp(s.offset, 0, s.maxScroll())
}

// Config returns the current layout configuration.
func (s *Sim) Config() SimConfig { return s.cfg }

func (s *Sim) padding() float64 {
	if s.cfg.Padding >= 0 {
		return s.cfg.Padding
	}
	p := (s.cfg.ClientWidth - s.cfg.CardWidth) / 2
	if p < 0 {
		return 0
	}
	return p
}

func (s *Sim) pitch() float64 {
	return s.cfg.CardWidth + s.cfg.Gap + s.cfg.Drift
}

func (s *Sim) maxScroll() float64 {
	m := s.ScrollExtent() - s.cfg.ClientWidth
	if m < 0 {
		return 0
	}
	return m
}

// ScrollOffset implements Viewport.
func (s *Sim) ScrollOffset() float64 { return s.offset }

// SetScrollOffset implements Viewport.
func (s *Sim) SetScrollOffset(x float64) {
	x = clamp(x, 0, s.maxScroll())
	if x == s.offset {
		return
	}
	s.offset = x
	s.markScrolled(false)
}

// ScrollTo implements Viewport.
func (s *Sim) ScrollTo(x float64, behavior Behavior) {
	s.cancelAnim()
	s.cancelFling()
	x = clamp(x, 0, s.maxScroll())
	if behavior == BehaviorInstant || x == s.offset {
		s.SetScrollOffset(x)
		if behavior == BehaviorSmooth {
			s.markScrolled(true)
		}
		return
	}
	dist := math.Abs(x - s.offset)
	dur := time.Duration(dist / s.cfg.SmoothPxPerMs * float64(time.Millisecond))
	if dur < s.cfg.SmoothMin {
		dur = s.cfg.SmoothMin
	}
	if dur > s.cfg.SmoothMax {
		dur = s.cfg.SmoothMax
	}
	s.anim = &simAnim{from: s.offset, to: x, start: s.sched.Now(), dur: dur}
	s.anim.frame = s.sched.RequestFrame(s.stepAnim)
}

func (s *Sim) stepAnim(now time.Time) {
	a := s.anim
	if a == nil {
		return
	}
	p := ease.Progress(float64(now.Sub(a.start)), float64(a.dur))
	if p >= 1 {
		s.SetScrollOffset(a.to)
		s.anim = nil
		s.markScrolled(true)
		return
	}
	s.SetScrollOffset(ease.Lerp(a.from, a.to, ease.InOutCubic(p)))
	a.frame = s.sched.RequestFrame(s.stepAnim)
}

// Animating reports whether a smooth scroll or native fling is in flight.
func (s *Sim) Animating() bool { return s.anim != nil || s.flingID != 0 }

// Fling starts native touch momentum with v px/frame in offset direction.
func (s *Sim) Fling(v float64) {
	s.cancelAnim()
	s.cancelFling()
	s.flingV = v
	s.flingLast = s.sched.Now()
	s.flingID = s.sched.RequestFrame(s.stepFling)
}

func (s *Sim) stepFling(now time.Time) {
	s.flingID = 0
	frame := float64(loop.DefaultFrameInterval)
	ratio := float64(now.Sub(s.flingLast)) / frame
	if ratio <= 0 {
		ratio = 1
	}
	s.flingLast = now
	s.flingV *= math.Pow(s.cfg.FlingFriction, ratio)
	next := s.offset + s.flingV*ratio
	if next <= 0 || next >= s.maxScroll() {
		s.SetScrollOffset(next)
		s.markScrolled(true)
		return
	}
	s.SetScrollOffset(next)
	if math.Abs(s.flingV) < s.cfg.FlingStop {
		if s.snap {
			s.ScrollTo(s.snapPoint(s.offset), BehaviorSmooth)
			return
		}
		s.markScrolled(true)
		return
	}
	s.flingID = s.sched.RequestFrame(s.stepFling)
}

func (s *Sim) snapPoint(x float64) float64 {
	p := s.pitch()
	if p <= 0 {
		return x
	}
	return clamp(math.Round(x/p)*p, 0, s.maxScroll())
}

// StopScroll implements Viewport.
func (s *Sim) StopScroll() {
	s.cancelAnim()
	s.cancelFling()
}

func (s *Sim) cancelAnim() {
	if s.anim != nil {
		s.sched.CancelFrame(s.anim.frame)
		s.anim = nil
	}
}

func (s *Sim) cancelFling() {
	if s.flingID != 0 {
		s.sched.CancelFrame(s.flingID)
		s.flingID = 0
	}
}

func (s *Sim) markScrolled(settled bool) {
	if settled {
		s.pendingSettled = true
	} else {
		s.pendingScroll = true
	}
	if s.dispatchID == 0 {
		s.dispatchID = s.sched.RequestFrame(s.dispatch)
	}
}

func (s *Sim) dispatch(time.Time) {
	s.dispatchID = 0
	scrolled, settled := s.pendingScroll, s.pendingSettled
	s.pendingScroll, s.pendingSettled = false, false
	if scrolled && s.onScroll != nil {
		s.onScroll(SourceScrollTick)
	}
	if settled && s.cfg.NativeScrollEnd && s.onScrollEnd != nil {
		s.onScrollEnd()
	}
}

// ScrollExtent implements Viewport.
func (s *Sim) ScrollExtent() float64 {
	if s.count == 0 {
		return s.cfg.ClientWidth
	}
	pad := s.padding()
	return pad + float64(s.count-1)*s.pitch() + s.cfg.CardWidth + pad
}

// ClientWidth implements Viewport.
func (s *Sim) ClientWidth() float64 { return s.cfg.ClientWidth }

// SetSnapEnabled implements Viewport.
func (s *Sim) SetSnapEnabled(enabled bool) { s.snap = enabled }

// SnapEnabled implements Viewport.
func (s *Sim) SnapEnabled() bool { return s.snap }

// SetTransform implements Viewport.
func (s *Sim) SetTransform(x float64) { s.transform = x }

// Transform implements Viewport.
func (s *Sim) Transform() float64 { return s.transform }

// SetPointerCapture implements Viewport.
func (s *Sim) SetPointerCapture(captured bool) { s.captured = captured }

// PointerCaptured reports whether the pointer is captured.
func (s *Sim) PointerCaptured() bool { return s.captured }

// SupportsScrollEnd implements Viewport.
func (s *Sim) SupportsScrollEnd() bool { return s.cfg.NativeScrollEnd }

// RenderedCount implements ItemRenderer.
func (s *Sim) RenderedCount() int { return s.count }

// ItemGeometry implements ItemRenderer.
func (s *Sim) ItemGeometry(i int) (Rect, bool) {
	if !s.ready || i < 0 || i >= s.count {
		return Rect{}, false
	}
	return Rect{Left: s.padding() + float64(i)*s.pitch(), Width: s.cfg.CardWidth}, true
}

// ApplyStyle implements ItemRenderer.
func (s *Sim) ApplyStyle(i int, st Style) {
	if i < 0 || i >= len(s.styles) {
		return
	}
	s.styles[i] = st
	s.applied++
}

// StyleOf returns the last style applied to child i.
func (s *Sim) StyleOf(i int) Style {
	if i < 0 || i >= len(s.styles) {
		return Style{}
	}
	return s.styles[i]
}

// AppliedCount returns how many ApplyStyle calls happened.
func (s *Sim) AppliedCount() int { return s.applied }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
