// Package teleport keeps an infinite carousel inside the safe zone of its
// buffered render by relocating the offset one item set at a time.
package teleport

import (
	"math"
	"time"

	"github.com/andyrewlee/carousel/internal/coordinator"
	"github.com/andyrewlee/carousel/internal/geometry"
	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/loop"
	"github.com/andyrewlee/carousel/internal/perf"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// Platform selects the teleport strategy.
type Platform int

const (
	// PlatformPointer teleports reactively during scrolling.
	PlatformPointer Platform = iota
	// PlatformTouch defers teleports to scroll settle and touch start.
	PlatformTouch
)

func (p Platform) String() string {
	if p == PlatformTouch {
		return "touch"
	}
	return "pointer"
}

// Kind says which path performed a teleport.
type Kind int

const (
	KindReactive Kind = iota
	KindDeferred
	KindSafety
	KindProactive
)

func (k Kind) String() string {
	switch k {
	case KindReactive:
		return "reactive"
	case KindDeferred:
		return "deferred"
	case KindSafety:
		return "safety"
	case KindProactive:
		return "proactive"
	default:
		return "unknown"
	}
}

// Config holds the empirically tuned thresholds.
type Config struct {
	// SnapTolerance is the fraction of a stride a resting offset may be off an
	// anchor and still count as settled.
	SnapTolerance float64
	// SafetyMargin is the distance in px from the physical extent at which a
	// touch start teleports immediately.
	SafetyMargin float64
	// GuardDelay keeps the pre-teleport guard up after a proactive teleport.
	GuardDelay time.Duration
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{SnapTolerance: 0.05, SafetyMargin: 500, GuardDelay: 100 * time.Millisecond}
}

// Normalize fills zero fields with defaults.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.SnapTolerance <= 0 || c.SnapTolerance >= 0.5 {
		c.SnapTolerance = d.SnapTolerance
	}
	if c.SafetyMargin <= 0 {
		c.SafetyMargin = d.SafetyMargin
	}
	if c.GuardDelay <= 0 {
		c.GuardDelay = d.GuardDelay
	}
	return c
}

// Stats counts teleports by kind.
type Stats struct {
	Reactive  int
	Deferred  int
	Safety    int
	Proactive int
}

// Total returns the number of teleports.
func (s Stats) Total() int { return s.Reactive + s.Deferred + s.Safety + s.Proactive }

// Effects re-applies visual effects for an offset.
type Effects interface {
	Apply(offset float64) int
}

// Correction returns the delta that moves offset back into the safe zone of
// buf, or 0 when no teleport is needed.
func Correction(buf geometry.Buffer, offset float64) float64 {
	if buf.Empty() {
		return 0
	}
	lo, hi := buf.SafeZone()
	set := buf.SetWidth()
	switch {
	case offset >= hi:
		return -math.Floor((offset-lo)/set) * set
	case offset < lo:
		return set
	default:
		return 0
	}
}

// Engine performs teleports for one carousel.
type Engine struct {
	vp       viewport.Viewport
	coord    *coordinator.Coordinator
	sched    loop.Scheduler
	fx       Effects
	cfg      Config
	sink     logging.Scoped
	buf      geometry.Buffer
	platform Platform

	frame      loop.FrameID
	pendingSrc viewport.Source
	stats      Stats
	onTeleport func(kind Kind, delta float64)
}

// New creates an engine with an empty buffer. fx may be nil.
func New(vp viewport.Viewport, coord *coordinator.Coordinator, sched loop.Scheduler, fx Effects, cfg Config, sink logging.Sink) *Engine {
	return &Engine{
		vp:    vp,
		coord: coord,
		sched: sched,
		fx:    fx,
		cfg:   cfg.Normalize(),
		sink:  logging.NewScoped(sink, "teleport"),
	}
}

// SetConfig replaces the thresholds.
func (e *Engine) SetConfig(cfg Config) { e.cfg = cfg.Normalize() }

// SetBuffer replaces the buffer geometry. An empty buffer disables teleports.
func (e *Engine) SetBuffer(b geometry.Buffer) { e.buf = b }

// Buffer returns the buffer geometry in use.
func (e *Engine) Buffer() geometry.Buffer { return e.buf }

// SetPlatform selects the strategy.
func (e *Engine) SetPlatform(p Platform) { e.platform = p }

// Platform returns the strategy in use.
func (e *Engine) Platform() Platform { return e.platform }

// Stats returns teleport counts.
func (e *Engine) Stats() Stats { return e.stats }

// OnTeleport registers a callback fired after every teleport.
func (e *Engine) OnTeleport(fn func(kind Kind, delta float64)) { e.onTeleport = fn }

// OnScroll schedules one reactive check for the next frame. Bursts of calls
// within a frame collapse into one check; a non-tick source wins over ticks.
func (e *Engine) OnScroll(src viewport.Source) {
	if e.platform == PlatformTouch || e.buf.Empty() {
		return
	}
	if e.frame != 0 {
		if src != viewport.SourceScrollTick {
			e.pendingSrc = src
		}
		return
	}
	e.pendingSrc = src
	e.frame = e.sched.RequestFrame(func(time.Time) {
		e.frame = 0
		e.Check(e.pendingSrc)
	})
}

// Check runs the reactive teleport now and reports whether it teleported.
func (e *Engine) Check(src viewport.Source) bool {
	if e.vp == nil || e.buf.Empty() || e.guarded() {
		return false
	}
	if _, ok := e.coord.Context().Target(); ok && src == viewport.SourceScrollTick {
		return false
	}
	delta := Correction(e.buf, e.vp.ScrollOffset())
	if delta == 0 {
		return false
	}
	e.teleport(KindReactive, delta)
	return true
}

// OnScrollEnd teleports a settled offset once it rests on an anchor.
func (e *Engine) OnScrollEnd() bool {
	if e.vp == nil || e.buf.Empty() || e.guarded() {
		return false
	}
	offset := e.vp.ScrollOffset()
	delta := Correction(e.buf, offset)
	if delta == 0 {
		return false
	}
	if !e.aligned(offset) {
		e.sink.Emit("deferred_skip", "offset", offset)
		return false
	}
	e.teleport(KindDeferred, delta)
	return true
}

// OnTouchStart teleports when a new touch begins close to the physical edge.
func (e *Engine) OnTouchStart() bool {
	if e.vp == nil || e.buf.Empty() || e.guarded() {
		return false
	}
	offset := e.vp.ScrollOffset()
	maxScroll := viewport.MaxScroll(e.vp)
	if offset > e.cfg.SafetyMargin && offset < maxScroll-e.cfg.SafetyMargin {
		return false
	}
	delta := Correction(e.buf, offset)
	if delta == 0 {
		return false
	}
	e.teleport(KindSafety, delta)
	return true
}

// PreTeleport moves the live offset and target by one set width when target
// lies outside the safe zone and returns the adjusted target. Targets inside
// the safe zone are returned unchanged without side effects, and so is every
// target while another teleport is in progress.
func (e *Engine) PreTeleport(target float64) float64 {
	if e.vp == nil || e.buf.Empty() {
		return target
	}
	if e.guarded() {
		e.sink.Emit("pre_teleport_refused", "target", target)
		return target
	}
	delta := Correction(e.buf, target)
	if delta == 0 {
		return target
	}
	e.vp.StopScroll()
	e.coord.Transition(coordinator.StartPreTeleport{})
	e.coord.Transition(coordinator.SetPreTeleporting{Value: true})

	from := e.vp.ScrollOffset()
	e.rewrite(from + delta)
	adjusted := target + delta
	e.coord.Transition(coordinator.SetPendingTarget{Target: adjusted})

	var id loop.TimerID
	id = e.sched.AfterFunc(e.cfg.GuardDelay, func() {
		e.coord.Release(coordinator.TimerPreTeleportGuard, id)
		e.coord.Transition(coordinator.SetPreTeleporting{Value: false})
	})
	e.coord.Track(coordinator.TimerPreTeleportGuard, id)

	e.record(KindProactive, delta, from, target, adjusted)
	return adjusted
}

// Stop cancels a scheduled reactive check.
func (e *Engine) Stop() {
	if e.frame != 0 {
		e.sched.CancelFrame(e.frame)
		e.frame = 0
	}
}

func (e *Engine) guarded() bool {
	ctx := e.coord.Context()
	return ctx.IsTeleporting || ctx.IsPreTeleporting
}

func (e *Engine) aligned(offset float64) bool {
	stride := e.buf.Stride
	rem := math.Mod(offset, stride)
	if rem < 0 {
		rem += stride
	}
	return math.Min(rem, stride-rem) <= e.cfg.SnapTolerance*stride
}

func (e *Engine) teleport(kind Kind, delta float64) {
	from := e.vp.ScrollOffset()
	e.vp.StopScroll()
	e.rewrite(from + delta)
	e.record(kind, delta, from, 0, 0)
}

func (e *Engine) rewrite(to float64) {
	e.coord.Transition(coordinator.SetTeleporting{Value: true})
	e.vp.SetScrollOffset(to)
	if e.fx != nil {
		e.fx.Apply(e.vp.ScrollOffset())
	}
	e.coord.Transition(coordinator.SetTeleporting{Value: false})
}

func (e *Engine) record(kind Kind, delta, from, target, adjusted float64) {
	switch kind {
	case KindReactive:
		e.stats.Reactive++
	case KindDeferred:
		e.stats.Deferred++
	case KindSafety:
		e.stats.Safety++
	case KindProactive:
		e.stats.Proactive++
	}
	perf.Count("teleport_"+kind.String(), 1)
	if kind == KindProactive {
		e.sink.Emit("pre_teleport", "from", from, "delta", delta, "target", target, "adjusted", adjusted)
	} else {
		e.sink.Emit("teleport", "kind", kind, "from", from, "delta", delta)
	}
	if e.onTeleport != nil {
		e.onTeleport(kind, delta)
	}
}
