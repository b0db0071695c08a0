// Package carousel composes the engine subsystems into one looping carousel
// instance driven by host events.
package carousel

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/andyrewlee/carousel/internal/config"
	"github.com/andyrewlee/carousel/internal/coordinator"
	"github.com/andyrewlee/carousel/internal/effects"
	"github.com/andyrewlee/carousel/internal/geometry"
	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/loop"
	"github.com/andyrewlee/carousel/internal/navigation"
	"github.com/andyrewlee/carousel/internal/physics"
	"github.com/andyrewlee/carousel/internal/teleport"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// Options configures one carousel.
type Options struct {
	// Items is the logical item count.
	Items    int
	Infinite bool
	// MinBuffer overrides Tunables.MinBuffer when positive.
	MinBuffer int
	Platform  teleport.Platform
	// PersistKey keys the saved offset. Empty derives a per-instance key.
	PersistKey string
	// FallbackCardWidth and Gap describe the layout used before children render.
	FallbackCardWidth float64
	Gap               float64

	NextPagePending func() bool
	OnActiveItem    func(logical int)
	OnEndReached    func()

	Tunables config.Tunables
}

// Deps are the collaborators a carousel drives.
type Deps struct {
	Viewport viewport.Viewport
	Renderer viewport.ItemRenderer
	// Store may be nil to disable persistence.
	Store viewport.OffsetStore
	Loop  loop.Scheduler
	// Sink may be nil to log events through the file logger.
	Sink logging.Sink
}

// State is a read-only view for hosts.
type State struct {
	ID        string
	Phase     coordinator.Phase
	Offset    float64
	Target    float64
	HasTarget bool
	Layout    geometry.Layout
	Buffer    geometry.Buffer
	Active    int
	Transform float64
	Teleports teleport.Stats
	Gesture   physics.Gesture
	Platform  teleport.Platform
	Infinite  bool
	Items     int
}

// Carousel is one mounted carousel instance. It is driven from a single
// goroutine, the one that drives its loop.
type Carousel struct {
	id   string
	opts Options
	tun  config.Tunables

	vp       viewport.Viewport
	renderer viewport.ItemRenderer
	store    viewport.OffsetStore
	sched    loop.Scheduler
	sink     logging.Scoped

	coord    *coordinator.Coordinator
	measurer *geometry.Measurer
	fx       *effects.Engine
	tele     *teleport.Engine
	nav      *navigation.Controller
	bouncer  *physics.Bouncer
	drag     *physics.Dragger

	layout geometry.Layout
	buf    geometry.Buffer

	mounted   bool
	passFrame loop.FrameID
	passSrc   viewport.Source
	saveTimer loop.TimerID
	active    int
	endArmed  bool
	lastEnd   time.Time
}

// New wires a carousel. Nothing touches the viewport until Mount.
func New(opts Options, deps Deps) *Carousel {
	id := uuid.NewString()[:8]
	sink := deps.Sink
	if sink == nil {
		sink = logging.LogSink{Prefix: id}
	}
	if opts.PersistKey == "" {
		opts.PersistKey = "carousel-" + id
	}
	if opts.Items < 0 {
		opts.Items = 0
	}
	c := &Carousel{
		id:       id,
		opts:     opts,
		tun:      opts.Tunables.Normalize(),
		vp:       deps.Viewport,
		renderer: deps.Renderer,
		store:    deps.Store,
		sched:    deps.Loop,
		sink:     logging.NewScoped(sink, "carousel"),
		active:   -1,
		endArmed: true,
	}

	c.coord = coordinator.New(c.sched, sink)
	c.fx = effects.New(c.vp, c.renderer, c.tun.Effects(), sink)
	c.tele = teleport.New(c.vp, c.coord, c.sched, c.fx, c.tun.Teleport(), sink)
	c.tele.SetPlatform(opts.Platform)
	c.bouncer = physics.NewBouncer(c.vp, c.coord, c.sched, c.tun.Physics(), sink)
	c.nav = navigation.New(c.vp, c.renderer, c.coord, c.sched, c.tele, c.bouncer, c.tun.Navigation(), sink)
	c.nav.OnSettled(func(float64) { c.settled() })
	c.drag = physics.NewDragger(c.vp, c.renderer, c.coord, c.sched, c.bouncer, c.tun.Physics(), physics.DraggerOptions{
		Infinite:        func() bool { return c.opts.Infinite },
		NextPagePending: c.nextPagePending,
		Moved:           c.HandleScroll,
		Settled:         c.settled,
	}, sink)
	c.measurer = geometry.NewMeasurer(c.renderer, c.sched, geometry.MeasurerConfig{
		FallbackCardWidth: opts.FallbackCardWidth,
		Gap:               opts.Gap,
		ResizeDebounce:    c.tun.ResizeDebounce(),
	}, sink)
	c.measurer.OnChange(c.onLayout)
	return c
}

// ID returns the instance id.
func (c *Carousel) ID() string { return c.id }

// Coordinator exposes the state machine for observers.
func (c *Carousel) Coordinator() *coordinator.Coordinator { return c.coord }

func (c *Carousel) nextPagePending() bool {
	return c.opts.NextPagePending != nil && c.opts.NextPagePending()
}

func (c *Carousel) minBuffer() int {
	if c.opts.MinBuffer > 0 {
		return c.opts.MinBuffer
	}
	return c.tun.MinBuffer
}

// Mount initializes the state machine, measures, restores the saved offset
// and applies the first round of effects.
func (c *Carousel) Mount() {
	if c.mounted || c.vp == nil || c.renderer == nil || c.sched == nil {
		return
	}
	c.coord.Transition(coordinator.Initialize{})
	c.rerender()
	c.measurer.Observe()
	c.layout = c.measurer.Layout()
	c.applyGeometry()
	c.restore()
	c.mounted = true
	c.runPass(viewport.SourceProgram)
	c.sink.Emit("mounted", "items", c.opts.Items, "infinite", c.opts.Infinite, "stride", c.layout.Stride())
}

// Unmount flushes the pending save and cancels every timer and animation.
func (c *Carousel) Unmount() {
	if !c.mounted {
		return
	}
	if c.saveTimer != 0 {
		c.sched.CancelTimer(c.saveTimer)
		c.saveTimer = 0
		c.save()
	}
	if c.passFrame != 0 {
		c.sched.CancelFrame(c.passFrame)
		c.passFrame = 0
	}
	c.drag.Stop()
	c.bouncer.Stop()
	c.nav.Cancel()
	c.tele.Stop()
	c.measurer.Stop()
	c.coord.Dispose()
	c.mounted = false
	c.sink.Emit("unmounted")
}

func (c *Carousel) rerender() {
	count := c.opts.Items
	if c.opts.Infinite {
		count = geometry.NewBuffer(c.opts.Items, c.minBuffer(), 0).RenderedCount()
	}
	if rc, ok := c.renderer.(viewport.ItemCounter); ok {
		rc.SetItemCount(count)
	}
	c.fx.InvalidateGeometry()
}

func (c *Carousel) applyGeometry() {
	stride := c.layout.Stride()
	if c.opts.Infinite {
		c.buf = geometry.NewBuffer(c.opts.Items, c.minBuffer(), stride)
		c.tele.SetBuffer(c.buf)
	} else {
		c.buf = geometry.Buffer{Items: c.opts.Items, Stride: stride}
		c.tele.SetBuffer(geometry.Buffer{})
	}
	c.nav.SetGeometry(stride, c.buf)
	c.nav.SetInfinite(c.opts.Infinite)
}

func (c *Carousel) restore() {
	start := 0.0
	if c.opts.Infinite && !c.buf.Empty() {
		start = c.nav.AnchorOffset(c.buf.RealStart())
	}
	offset := start
	if c.store != nil {
		if saved, ok := c.store.SavedOffset(c.opts.PersistKey); ok {
			switch {
			case !c.opts.Infinite:
				offset = saved
			case c.buf.InSafeZone(saved):
				offset = saved
			default:
				c.sink.Emit("restore_rejected", "saved", saved)
			}
		}
	}
	c.vp.SetScrollOffset(offset)
	c.fx.Apply(c.vp.ScrollOffset())
	c.sink.Emit("restored", "offset", c.vp.ScrollOffset())
}

func (c *Carousel) onLayout(l geometry.Layout) {
	prev := c.layout.Stride()
	c.layout = l
	c.applyGeometry()
	c.fx.InvalidateGeometry()
	c.fx.InvalidateContainer()
	if !c.mounted {
		return
	}
	if next := l.Stride(); prev > 0 && next > 0 && math.Abs(next-prev) > geometry.StrideEpsilon {
		c.vp.SetScrollOffset(c.vp.ScrollOffset() / prev * next)
	}
	c.requestPass(viewport.SourceProgram)
}

// HandleScroll is the scroll listener. Work is coalesced into one pass per
// frame; a non-tick source wins over ticks.
func (c *Carousel) HandleScroll(src viewport.Source) {
	if !c.mounted {
		return
	}
	c.nav.OnScroll()
	c.requestPass(src)
}

func (c *Carousel) requestPass(src viewport.Source) {
	if c.passFrame != 0 {
		if src != viewport.SourceScrollTick {
			c.passSrc = src
		}
		return
	}
	c.passSrc = src
	c.passFrame = c.sched.RequestFrame(func(time.Time) {
		c.passFrame = 0
		c.runPass(c.passSrc)
	})
}

func (c *Carousel) runPass(src viewport.Source) {
	if c.tele.Platform() == teleport.PlatformPointer {
		c.tele.Check(src)
	}
	offset := c.vp.ScrollOffset()
	c.fx.Apply(offset)
	c.updateActive(offset)
	c.checkEnd(offset)
	c.scheduleSave()
}

// HandleScrollEnd is the native settle listener.
func (c *Carousel) HandleScrollEnd() {
	if !c.mounted {
		return
	}
	c.nav.OnScrollEnd()
	if c.tele.Platform() == teleport.PlatformTouch {
		c.tele.OnScrollEnd()
	}
	c.settled()
}

func (c *Carousel) settled() {
	if c.mounted {
		c.requestPass(viewport.SourceProgram)
	}
}

// interrupt hands control back to the user: program scrolls, momentum and
// pending wheel snaps are cancelled.
func (c *Carousel) interrupt() {
	switch c.coord.Phase() {
	case coordinator.Scrolling, coordinator.PreTeleporting:
		c.coord.Transition(coordinator.UserInterrupt{})
		c.vp.StopScroll()
	}
	c.coord.ClearTimer(coordinator.TimerSnap)
}

// PointerDown handles a pointer press. Touch presses go to TouchStart.
func (c *Carousel) PointerDown(p physics.Pointer) {
	if !c.mounted {
		return
	}
	if p.Touch {
		c.TouchStart()
		return
	}
	c.interrupt()
	c.drag.PointerDown(p)
}

// PointerMove handles pointer movement.
func (c *Carousel) PointerMove(p physics.Pointer) {
	if c.mounted {
		c.drag.PointerMove(p)
	}
}

// PointerUp handles a release and reports whether it ended a drag.
func (c *Carousel) PointerUp(p physics.Pointer) bool {
	if !c.mounted {
		return false
	}
	return c.drag.PointerUp(p)
}

// PointerCancel terminates a drag whose release was lost (window blur).
func (c *Carousel) PointerCancel() {
	if c.mounted {
		c.drag.Cancel()
	}
}

// Wheel scrolls by delta px. Once the wheel goes quiet the offset snaps to the
// nearest item while native snap is enabled.
func (c *Carousel) Wheel(delta float64) {
	if !c.mounted || delta == 0 || c.coord.Phase() == coordinator.Bouncing {
		return
	}
	if c.drag.State() == physics.GesturePressed || c.drag.State() == physics.GestureDragging || c.drag.State() == physics.GestureEdgePulling {
		return
	}
	c.interrupt()
	c.drag.Stop()
	c.vp.SetScrollOffset(c.vp.ScrollOffset() + delta)

	var id loop.TimerID
	id = c.sched.AfterFunc(c.tun.Navigation().IdleDebounce, func() {
		c.coord.Release(coordinator.TimerSnap, id)
		if !c.vp.SnapEnabled() || c.coord.IsBusy() {
			return
		}
		if target, ok := physics.NearestAnchor(c.renderer, c.vp.ScrollOffset(), c.vp.ClientWidth(), 0); ok {
			c.vp.ScrollTo(target, viewport.BehaviorSmooth)
		}
	})
	c.coord.Track(coordinator.TimerSnap, id)
}

// TouchStart handles a new touch: program scrolls are interrupted and the
// safety valve may teleport away from the physical edge.
func (c *Carousel) TouchStart() {
	if !c.mounted {
		return
	}
	c.interrupt()
	c.drag.Stop()
	c.vp.StopScroll()
	c.tele.OnTouchStart()
}

// Fling releases a touch with velocity v px per frame in offset direction.
func (c *Carousel) Fling(v float64) {
	if !c.mounted {
		return
	}
	if f, ok := c.vp.(viewport.Flinger); ok {
		f.Fling(v)
	}
}

// Resize handles a container width change.
func (c *Carousel) Resize(clientWidth float64) {
	if !c.mounted {
		return
	}
	if r, ok := c.vp.(viewport.Resizer); ok {
		r.SetClientWidth(clientWidth)
	}
	c.fx.InvalidateContainer()
	c.fx.InvalidateGeometry()
	c.measurer.Observe()
	c.requestPass(viewport.SourceProgram)
}

func (c *Carousel) canNavigate() bool {
	if !c.mounted {
		return false
	}
	switch c.drag.State() {
	case physics.GesturePressed, physics.GestureDragging, physics.GestureEdgePulling:
		return false
	}
	c.drag.Stop()
	c.coord.ClearTimer(coordinator.TimerSnap)
	return true
}

// Navigate moves one item in direction.
func (c *Carousel) Navigate(direction int) bool {
	return c.canNavigate() && c.nav.Navigate(direction)
}

// ScrollToIndex scrolls to a logical item.
func (c *Carousel) ScrollToIndex(logical int) bool {
	return c.canNavigate() && c.nav.ScrollToIndex(logical)
}

// SetItems changes the logical item count, keeping the active item in view.
func (c *Carousel) SetItems(n int) {
	if n < 0 {
		n = 0
	}
	c.reconfigure(func() { c.opts.Items = n })
	c.endArmed = true
}

// SetInfinite switches between a looping and a finite list.
func (c *Carousel) SetInfinite(infinite bool) {
	if infinite == c.opts.Infinite {
		return
	}
	c.reconfigure(func() { c.opts.Infinite = infinite })
}

func (c *Carousel) reconfigure(change func()) {
	keep := c.active
	if !c.mounted {
		change()
		return
	}
	c.interrupt()
	c.drag.Stop()
	c.bouncer.Stop()
	change()
	c.rerender()
	c.measurer.Remeasure()
	c.layout = c.measurer.Layout()
	c.applyGeometry()

	if keep < 0 {
		keep = 0
	}
	if keep >= c.opts.Items {
		keep = c.opts.Items - 1
	}
	offset := 0.0
	if keep >= 0 {
		offset = c.nav.AnchorOffset(c.buf.RealStart() + keep)
	}
	c.vp.SetScrollOffset(offset)
	c.active = -1
	c.coord.Transition(coordinator.SetActiveItem{Key: ""})
	c.runPass(viewport.SourceProgram)
}

// SetPlatform selects pointer or touch teleport handling.
func (c *Carousel) SetPlatform(p teleport.Platform) {
	c.opts.Platform = p
	c.tele.SetPlatform(p)
}

// SetTunables applies new tuning to every subsystem.
func (c *Carousel) SetTunables(t config.Tunables) {
	c.tun = t.Normalize()
	c.fx.SetConfig(c.tun.Effects())
	c.tele.SetConfig(c.tun.Teleport())
	c.nav.SetConfig(c.tun.Navigation())
	c.bouncer.SetConfig(c.tun.Physics())
	c.drag.SetConfig(c.tun.Physics())
	if c.mounted && c.opts.Infinite && c.buf.Repetitions != geometry.Repetitions(c.opts.Items, c.minBuffer()) {
		c.reconfigure(func() {})
	}
	c.sink.Emit("tunables")
}

func (c *Carousel) eagerBias() float64 {
	if c.opts.Platform == teleport.PlatformTouch {
		return c.tun.EagerTouch
	}
	return c.tun.EagerPointer
}

func (c *Carousel) direction() float64 {
	if d := c.coord.Context().ScrollDirection; d != 0 {
		return float64(d)
	}
	if c.drag.Active() {
		switch v := c.drag.Velocity(); {
		case v > 0:
			return -1
		case v < 0:
			return 1
		}
	}
	return 0
}

func (c *Carousel) updateActive(offset float64) {
	stride := c.layout.Stride()
	count := c.buf.RenderedCount()
	if stride <= 0 || count == 0 {
		return
	}
	pos := viewport.IndexAt(c.vp, c.renderer, offset, stride)
	idx := int(math.Floor(pos + 0.5 + c.direction()*c.eagerBias()))
	if idx < 0 {
		idx = 0
	}
	if idx >= count {
		idx = count - 1
	}
	logical := c.buf.LogicalIndex(idx)
	key := strconv.Itoa(logical)
	if key == c.coord.Context().LastActiveItemKey {
		return
	}
	c.coord.Transition(coordinator.SetActiveItem{Key: key})
	c.active = logical
	c.sink.Emit("active", "item", logical)
	if c.opts.OnActiveItem != nil {
		c.opts.OnActiveItem(logical)
	}
}

func (c *Carousel) checkEnd(offset float64) {
	if c.opts.Infinite || c.opts.Items == 0 {
		return
	}
	threshold := c.tun.EndThresholdPx
	if threshold <= 0 {
		threshold = c.vp.ClientWidth()
	}
	if viewport.MaxScroll(c.vp)-offset > threshold {
		c.endArmed = true
		return
	}
	if !c.endArmed || c.nextPagePending() {
		return
	}
	now := c.sched.Now()
	if !c.lastEnd.IsZero() && now.Sub(c.lastEnd) < c.tun.EndCooldown() {
		return
	}
	c.endArmed = false
	c.lastEnd = now
	c.sink.Emit("end_reached", "offset", offset)
	if c.opts.OnEndReached != nil {
		c.opts.OnEndReached()
	}
}

func (c *Carousel) scheduleSave() {
	if c.store == nil {
		return
	}
	if c.saveTimer != 0 {
		c.sched.CancelTimer(c.saveTimer)
	}
	c.saveTimer = c.sched.AfterFunc(c.tun.SaveDebounce(), func() {
		c.saveTimer = 0
		c.save()
	})
}

func (c *Carousel) save() {
	if c.store == nil {
		return
	}
	offset := c.vp.ScrollOffset()
	if err := c.store.SaveOffset(c.opts.PersistKey, offset); err != nil {
		logging.Warn("Failed to save offset for %s: %v", c.opts.PersistKey, err)
		return
	}
	c.sink.Emit("saved", "offset", offset)
}

// Snapshot returns the current state.
func (c *Carousel) Snapshot() State {
	ctx := c.coord.Context()
	s := State{
		ID:        c.id,
		Phase:     ctx.Phase,
		Target:    ctx.PendingTarget,
		HasTarget: ctx.HasPendingTarget,
		Layout:    c.layout,
		Buffer:    c.buf,
		Active:    c.active,
		Teleports: c.tele.Stats(),
		Gesture:   c.drag.State(),
		Platform:  c.opts.Platform,
		Infinite:  c.opts.Infinite,
		Items:     c.opts.Items,
	}
	if c.vp != nil {
		s.Offset = c.vp.ScrollOffset()
		s.Transform = c.vp.Transform()
	}
	return s
}
