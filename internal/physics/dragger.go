package physics

import (
	"math"
	"time"

	"github.com/andyrewlee/carousel/internal/coordinator"
	"github.com/andyrewlee/carousel/internal/ease"
	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/loop"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// Gesture is the per-gesture drag state.
type Gesture int

const (
	GestureIdle Gesture = iota
	GesturePressed
	GestureDragging
	GestureEdgePulling
	GestureMomentum
	GestureSnappingBack
	GestureSnapping
)

func (g Gesture) String() string {
	switch g {
	case GestureIdle:
		return "idle"
	case GesturePressed:
		return "pressed"
	case GestureDragging:
		return "dragging"
	case GestureEdgePulling:
		return "edge-pulling"
	case GestureMomentum:
		return "momentum"
	case GestureSnappingBack:
		return "snapping-back"
	case GestureSnapping:
		return "snapping"
	default:
		return "unknown"
	}
}

// Pointer is one pointer sample.
type Pointer struct {
	X     float64
	Touch bool
}

// DraggerOptions wires the dragger to the carousel it belongs to.
type DraggerOptions struct {
	// Infinite disables edges entirely.
	Infinite func() bool
	// NextPagePending lets momentum and drags run into the end without bouncing.
	NextPagePending func() bool
	// Moved is called after every offset write.
	Moved func(viewport.Source)
	// Settled is called when momentum, snap or snap-back come to rest.
	Settled func()
}

type tween struct {
	from, to float64
	written  float64
	start    time.Time
	dur      time.Duration
}

// Dragger turns pointer input into offset writes, momentum and snapping.
type Dragger struct {
	vp       viewport.Viewport
	renderer viewport.ItemRenderer
	coord    *coordinator.Coordinator
	sched    loop.Scheduler
	bouncer  *Bouncer
	cfg      Config
	opts     DraggerOptions
	sink     logging.Scoped

	state    Gesture
	startX   float64
	lastX    float64
	lastTime time.Time
	velocity float64
	pull     float64

	frame     loop.FrameID
	lastFrame time.Time
	direction int
	anim      tween
}

// NewDragger creates a dragger. bouncer may be nil for carousels without edges.
func NewDragger(vp viewport.Viewport, renderer viewport.ItemRenderer, coord *coordinator.Coordinator, sched loop.Scheduler, bouncer *Bouncer, cfg Config, opts DraggerOptions, sink logging.Sink) *Dragger {
	return &Dragger{
		vp:       vp,
		renderer: renderer,
		coord:    coord,
		sched:    sched,
		bouncer:  bouncer,
		cfg:      cfg.Normalize(),
		opts:     opts,
		sink:     logging.NewScoped(sink, "drag"),
	}
}

// SetConfig replaces the tuning. A running animation keeps its parameters.
func (d *Dragger) SetConfig(cfg Config) { d.cfg = cfg.Normalize() }

// State returns the gesture state.
func (d *Dragger) State() Gesture { return d.state }

// Velocity returns the smoothed velocity in px per frame, pointer direction.
func (d *Dragger) Velocity() float64 { return d.velocity }

// Active reports whether a gesture or its follow-up animation is in progress.
func (d *Dragger) Active() bool { return d.state != GestureIdle }

func (d *Dragger) hasEdges() bool {
	if d.opts.Infinite != nil && d.opts.Infinite() {
		return false
	}
	return d.opts.NextPagePending == nil || !d.opts.NextPagePending()
}

func (d *Dragger) moved(src viewport.Source) {
	if d.opts.Moved != nil {
		d.opts.Moved(src)
	}
}

// PointerDown starts a potential drag. Touch pointers are left to native
// scrolling.
func (d *Dragger) PointerDown(p Pointer) {
	if d.vp == nil || p.Touch {
		return
	}
	if d.coord.Phase() == coordinator.Bouncing {
		return
	}
	d.Stop()
	d.state = GesturePressed
	d.startX, d.lastX = p.X, p.X
	d.lastTime = d.sched.Now()
	d.velocity, d.pull = 0, 0
}

// PointerMove tracks a pressed or dragging pointer.
func (d *Dragger) PointerMove(p Pointer) {
	if d.vp == nil || p.Touch {
		return
	}
	switch d.state {
	case GesturePressed:
		if math.Abs(p.X-d.startX) < d.cfg.DragThreshold {
			return
		}
		d.beginDrag()
	case GestureDragging, GestureEdgePulling:
	default:
		return
	}

	now := d.sched.Now()
	dx := p.X - d.lastX
	instant := dx / frames(now.Sub(d.lastTime))
	d.velocity = d.velocity*(1-d.cfg.Alpha) + instant*d.cfg.Alpha
	d.lastX, d.lastTime = p.X, now
	d.applyDelta(dx)
}

func (d *Dragger) beginDrag() {
	d.state = GestureDragging
	d.vp.StopScroll()
	d.vp.SetPointerCapture(true)
	d.vp.SetSnapEnabled(false)
	d.coord.Transition(coordinator.DragStart{})
	d.sink.Emit("start", "x", d.startX)
}

// applyDelta moves the offset opposite to the pointer, turning overshoot past
// an edge into rubber band pull.
func (d *Dragger) applyDelta(dx float64) {
	cur := d.vp.ScrollOffset()
	if !d.hasEdges() {
		d.vp.SetScrollOffset(cur - dx)
		d.moved(viewport.SourceDrag)
		return
	}
	virtual := cur + d.pull - dx
	maxScroll := viewport.MaxScroll(d.vp)
	switch {
	case virtual < 0:
		d.vp.SetScrollOffset(0)
		d.pull = virtual
	case virtual > maxScroll:
		d.vp.SetScrollOffset(maxScroll)
		d.pull = virtual - maxScroll
	default:
		d.vp.SetScrollOffset(virtual)
		d.pull = 0
	}
	if d.pull != 0 {
		d.state = GestureEdgePulling
	} else {
		d.state = GestureDragging
	}
	d.vp.SetTransform(RubberBand(d.pull, d.cfg.MaxPull))
	d.moved(viewport.SourceDrag)
}

// PointerUp ends the gesture. It reports whether the gesture was a drag; a
// false result means the press should be treated as a click.
func (d *Dragger) PointerUp(p Pointer) bool {
	if d.vp == nil || p.Touch {
		return false
	}
	switch d.state {
	case GesturePressed:
		d.state = GestureIdle
		return false
	case GestureEdgePulling:
		d.endDrag()
		d.snapBack()
		return true
	case GestureDragging:
		d.endDrag()
		d.startMomentum(d.velocity)
		return true
	}
	return false
}

// Cancel terminates the gesture when the pointer-up was lost, for example on
// window blur. No momentum is started.
func (d *Dragger) Cancel() {
	switch d.state {
	case GesturePressed:
		d.state = GestureIdle
	case GestureEdgePulling:
		d.endDrag()
		d.snapBack()
	case GestureDragging:
		d.endDrag()
		d.snapToNearest(0)
	}
}

func (d *Dragger) endDrag() {
	d.vp.SetPointerCapture(false)
	d.coord.Transition(coordinator.DragEnd{})
	d.sink.Emit("release", "velocity", d.velocity, "pull", d.pull)
}

// Stop cancels momentum, snapping and snap-back, leaving the offset where it
// is and the transform at rest.
func (d *Dragger) Stop() {
	if d.frame != 0 {
		d.sched.CancelFrame(d.frame)
		d.frame = 0
	}
	switch d.state {
	case GestureSnappingBack, GestureEdgePulling:
		d.vp.SetTransform(0)
		d.pull = 0
	case GestureDragging:
		d.vp.SetPointerCapture(false)
		d.coord.Transition(coordinator.DragEnd{})
	}
	if d.state != GestureIdle && d.state != GesturePressed {
		d.vp.SetSnapEnabled(true)
	}
	d.state = GestureIdle
}

func (d *Dragger) snapBack() {
	d.state = GestureSnappingBack
	d.anim = tween{from: d.vp.Transform(), to: 0, start: d.sched.Now(), dur: d.cfg.SnapBackDuration}
	d.frame = d.sched.RequestFrame(d.stepSnapBack)
}

func (d *Dragger) stepSnapBack(now time.Time) {
	d.frame = 0
	p := ease.Progress(float64(now.Sub(d.anim.start)), float64(d.anim.dur))
	if p >= 1 {
		d.vp.SetTransform(0)
		d.pull = 0
		d.settle()
		return
	}
	d.vp.SetTransform(ease.Lerp(d.anim.from, d.anim.to, ease.OutCubic(p)))
	d.frame = d.sched.RequestFrame(d.stepSnapBack)
}

func (d *Dragger) startMomentum(v float64) {
	v = math.Max(-d.cfg.MaxVelocity, math.Min(d.cfg.MaxVelocity, v))
	d.velocity = v
	d.direction = 0
	if v > 0 {
		d.direction = -1
	} else if v < 0 {
		d.direction = 1
	}
	if math.Abs(v) < d.cfg.SnapThreshold {
		d.snapToNearest(d.direction)
		return
	}
	d.state = GestureMomentum
	d.lastFrame = d.sched.Now()
	d.frame = d.sched.RequestFrame(d.stepMomentum)
}

func (d *Dragger) stepMomentum(now time.Time) {
	d.frame = 0
	ratio := frames(now.Sub(d.lastFrame))
	d.lastFrame = now
	d.velocity *= math.Pow(d.cfg.Friction, ratio)

	next := d.vp.ScrollOffset() - d.velocity*ratio
	maxScroll := viewport.MaxScroll(d.vp)
	if next <= 0 || next >= maxScroll {
		edge := 1
		if next <= 0 {
			edge = -1
		}
		d.vp.SetScrollOffset(next)
		d.moved(viewport.SourceMomentum)
		if d.hasEdges() {
			d.state = GestureIdle
			d.vp.SetSnapEnabled(true)
			d.sink.Emit("edge", "direction", edge)
			if d.bouncer != nil {
				d.bouncer.Bounce(edge)
			}
			d.settled()
			return
		}
		d.settle()
		return
	}

	d.vp.SetScrollOffset(next)
	d.moved(viewport.SourceMomentum)
	if math.Abs(d.velocity) < d.cfg.SnapThreshold {
		d.snapToNearest(d.direction)
		return
	}
	d.frame = d.sched.RequestFrame(d.stepMomentum)
}

func (d *Dragger) snapToNearest(direction int) {
	cur := d.vp.ScrollOffset()
	target, ok := NearestAnchor(d.renderer, cur, d.vp.ClientWidth(), direction)
	if !ok {
		d.settle()
		return
	}
	target = math.Max(0, math.Min(target, viewport.MaxScroll(d.vp)))
	d.state = GestureSnapping
	d.anim = tween{from: cur, to: target, written: cur, start: d.sched.Now(), dur: d.cfg.SnapDuration}
	d.sink.Emit("snap", "from", cur, "to", target, "direction", direction)
	d.frame = d.sched.RequestFrame(d.stepSnap)
}

// stepSnap writes the eased position as a delta against the live offset so a
// teleport during the snap carries the animation with it.
func (d *Dragger) stepSnap(now time.Time) {
	d.frame = 0
	p := ease.Progress(float64(now.Sub(d.anim.start)), float64(d.anim.dur))
	want := ease.Lerp(d.anim.from, d.anim.to, ease.OutCubic(p))
	d.vp.SetScrollOffset(d.vp.ScrollOffset() + want - d.anim.written)
	d.anim.written = want
	d.moved(viewport.SourceMomentum)
	if p >= 1 {
		d.settle()
		return
	}
	d.frame = d.sched.RequestFrame(d.stepSnap)
}

func (d *Dragger) settle() {
	d.state = GestureIdle
	d.vp.SetSnapEnabled(true)
	d.settled()
}

func (d *Dragger) settled() {
	d.sink.Emit("settled", "offset", d.vp.ScrollOffset())
	if d.opts.Settled != nil {
		d.opts.Settled()
	}
}
