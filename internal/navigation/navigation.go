// Package navigation turns discrete intents (arrow clicks, item activation)
// into smooth program-driven scrolls and watches them to completion.
package navigation

import (
	"math"
	"time"

	"github.com/andyrewlee/carousel/internal/coordinator"
	"github.com/andyrewlee/carousel/internal/geometry"
	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/loop"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// Config holds the completion watcher timings.
type Config struct {
	// IdleDebounce is the quiet period after the last scroll event that counts
	// as settled when the viewport has no native settle signal.
	IdleDebounce time.Duration
	// SafetyTimeout forces completion of a navigation that never settles.
	SafetyTimeout time.Duration
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{IdleDebounce: 150 * time.Millisecond, SafetyTimeout: 2 * time.Second}
}

// Normalize fills zero fields with defaults.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.IdleDebounce <= 0 {
		c.IdleDebounce = d.IdleDebounce
	}
	if c.SafetyTimeout <= 0 {
		c.SafetyTimeout = d.SafetyTimeout
	}
	return c
}

// PreTeleporter adjusts a target that would land outside the safe zone.
type PreTeleporter interface {
	PreTeleport(target float64) float64
}

// Bouncer plays the finite-edge bounce.
type Bouncer interface {
	Bounce(direction int) bool
}

// Controller drives navigation for one carousel.
type Controller struct {
	vp       viewport.Viewport
	renderer viewport.ItemRenderer
	coord    *coordinator.Coordinator
	sched    loop.Scheduler
	teleport PreTeleporter
	bouncer  Bouncer
	cfg      Config
	sink     logging.Scoped

	stride   float64
	buf      geometry.Buffer
	infinite bool
	watching bool

	onSettled func(target float64)
}

// New creates a controller. teleport and bouncer may be nil.
func New(vp viewport.Viewport, renderer viewport.ItemRenderer, coord *coordinator.Coordinator, sched loop.Scheduler, teleport PreTeleporter, bouncer Bouncer, cfg Config, sink logging.Sink) *Controller {
	c := &Controller{
		vp:       vp,
		renderer: renderer,
		coord:    coord,
		sched:    sched,
		teleport: teleport,
		bouncer:  bouncer,
		cfg:      cfg.Normalize(),
		sink:     logging.NewScoped(sink, "navigation"),
	}
	coord.Subscribe(c.onTransition)
	return c
}

// SetConfig replaces the watcher timings.
func (c *Controller) SetConfig(cfg Config) { c.cfg = cfg.Normalize() }

// SetGeometry updates the stride and, for infinite lists, the buffer.
func (c *Controller) SetGeometry(stride float64, buf geometry.Buffer) {
	c.stride = stride
	c.buf = buf
}

// SetInfinite toggles infinite mode.
func (c *Controller) SetInfinite(infinite bool) { c.infinite = infinite }

// OnSettled registers the callback fired when a navigation completes.
func (c *Controller) OnSettled(fn func(target float64)) { c.onSettled = fn }

// Watching reports whether a navigation awaits completion.
func (c *Controller) Watching() bool { return c.watching }

// AnchorOffset returns the offset that centers rendered item i. Unmeasured
// items fall back to i*stride.
func (c *Controller) AnchorOffset(i int) float64 {
	if c.renderer != nil {
		if r, ok := c.renderer.ItemGeometry(i); ok {
			return r.Center() - c.vp.ClientWidth()/2
		}
	}
	return float64(i) * c.stride
}

func (c *Controller) ready() bool {
	if c.vp == nil || c.stride <= 0 {
		return false
	}
	switch c.coord.Phase() {
	case coordinator.Uninitialized, coordinator.Dragging:
		return false
	}
	// Bouncing, and the pre-teleport guard window.
	return !c.coord.IsBlocking()
}

// Navigate moves one item in direction. It reports whether a scroll started.
func (c *Controller) Navigate(direction int) bool {
	dir := sign(direction)
	if dir == 0 || !c.ready() {
		return false
	}
	count := c.renderer.RenderedCount()
	maxScroll := viewport.MaxScroll(c.vp)

	var target float64
	if prev, ok := c.coord.Context().Target(); ok {
		target = prev + float64(dir)*c.stride
		if !c.infinite && (target < -0.5 || target > maxScroll+0.5) {
			c.sink.Emit("edge_pending", "target", target)
			return false
		}
		// Catch up to the previous target before advancing past it.
		c.vp.ScrollTo(prev, viewport.BehaviorInstant)
		c.sink.Emit("catch_up", "to", prev, "next", target)
	} else {
		idx := int(math.Round(viewport.IndexAt(c.vp, c.renderer, c.vp.ScrollOffset(), c.stride))) + dir
		if !c.infinite && (idx < 0 || idx >= count) {
			c.sink.Emit("edge", "direction", dir)
			if c.bouncer != nil {
				c.bouncer.Bounce(dir)
			}
			return false
		}
		target = c.AnchorOffset(idx)
	}
	if !c.infinite {
		target = clamp(target, 0, maxScroll)
	}
	if !c.commit(coordinator.ArrowClick{Direction: dir, Target: target}, target) {
		return false
	}
	c.start(target)
	return true
}

// ScrollToIndex scrolls to a logical item. Infinite lists use the rendered copy
// closest to the current position.
func (c *Controller) ScrollToIndex(logical int) bool {
	if !c.ready() {
		return false
	}
	rendered, ok := c.renderedFor(logical)
	if !ok {
		return false
	}
	target := c.AnchorOffset(rendered)
	if !c.infinite {
		target = clamp(target, 0, viewport.MaxScroll(c.vp))
	}
	if prev, ok := c.coord.Context().Target(); ok {
		c.vp.ScrollTo(prev, viewport.BehaviorInstant)
	}
	if !c.commit(coordinator.ItemClick{Target: target}, target) {
		return false
	}
	c.start(target)
	return true
}

func (c *Controller) renderedFor(logical int) (int, bool) {
	count := c.renderer.RenderedCount()
	if !c.infinite || c.buf.Empty() {
		if logical < 0 || logical >= count {
			return 0, false
		}
		return logical, true
	}
	n := c.buf.Items
	if logical < 0 || logical >= n {
		return 0, false
	}
	cur := c.vp.ScrollOffset()
	best, bestDist := -1, math.Inf(1)
	for i := logical; i < count; i += n {
		if d := math.Abs(c.AnchorOffset(i) - cur); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// commit records the navigation on the coordinator.
func (c *Controller) commit(a coordinator.Action, target float64) bool {
	next := c.coord.Transition(a)
	return next.Phase == coordinator.Scrolling
}

func (c *Controller) start(target float64) {
	if c.infinite && c.teleport != nil {
		target = c.teleport.PreTeleport(target)
	}
	if c.infinite {
		c.vp.SetSnapEnabled(false)
	}
	c.sink.Emit("scroll", "from", c.vp.ScrollOffset(), "to", target)
	c.vp.ScrollTo(target, viewport.BehaviorSmooth)
	c.watch()
}

func (c *Controller) watch() {
	c.watching = true
	var id loop.TimerID
	id = c.sched.AfterFunc(c.cfg.SafetyTimeout, func() {
		c.coord.Release(coordinator.TimerSafety, id)
		c.forceComplete()
	})
	c.coord.Track(coordinator.TimerSafety, id)
	if !c.vp.SupportsScrollEnd() {
		c.armIdle()
	}
}

func (c *Controller) armIdle() {
	var id loop.TimerID
	id = c.sched.AfterFunc(c.cfg.IdleDebounce, func() {
		c.coord.Release(coordinator.TimerIdle, id)
		c.verify()
	})
	c.coord.Track(coordinator.TimerIdle, id)
}

// OnScroll re-arms idle detection for viewports without a settle signal.
func (c *Controller) OnScroll() {
	if c.watching && !c.vp.SupportsScrollEnd() {
		c.armIdle()
	}
}

// OnScrollEnd verifies completion on a native settle signal.
func (c *Controller) OnScrollEnd() {
	if c.watching {
		c.verify()
	}
}

func (c *Controller) onTransition(prev, next coordinator.Context) {
	if !c.watching {
		return
	}
	if !next.HasPendingTarget && next.Phase != coordinator.Scrolling && next.Phase != coordinator.PreTeleporting {
		c.stopWatching()
		return
	}
	if prev.Phase == coordinator.PreTeleporting && next.Phase == coordinator.Scrolling {
		c.armIdle()
	}
}

func (c *Controller) verify() {
	ctx := c.coord.Context()
	target, ok := ctx.Target()
	if !ok {
		c.stopWatching()
		return
	}
	if ctx.Phase != coordinator.Scrolling {
		return
	}
	offset := c.vp.ScrollOffset()
	if math.Abs(offset-target) > c.stride/2 {
		c.sink.Emit("premature_settle", "offset", offset, "target", target)
		return
	}
	c.complete(target)
}

func (c *Controller) forceComplete() {
	target, ok := c.coord.Context().Target()
	if !ok {
		c.stopWatching()
		return
	}
	c.sink.Emit("safety_timeout", "offset", c.vp.ScrollOffset(), "target", target)
	c.vp.ScrollTo(target, viewport.BehaviorInstant)
	if c.coord.Phase() == coordinator.PreTeleporting {
		c.coord.ClearTimer(coordinator.TimerPreTeleportGuard)
		c.coord.Transition(coordinator.SetPreTeleporting{Value: false})
	}
	c.complete(target)
}

func (c *Controller) complete(target float64) {
	c.stopWatching()
	c.coord.Transition(coordinator.ScrollComplete{})
	c.sink.Emit("complete", "target", target)
	if c.onSettled != nil {
		c.onSettled(target)
	}
}

func (c *Controller) stopWatching() {
	if !c.watching {
		return
	}
	c.watching = false
	c.coord.ClearTimer(coordinator.TimerIdle)
	c.coord.ClearTimer(coordinator.TimerSafety)
	if c.infinite {
		c.vp.SetSnapEnabled(true)
	}
}

// Cancel abandons the watched navigation, for example on user interrupt.
func (c *Controller) Cancel() {
	c.stopWatching()
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
