package physics

import (
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/andyrewlee/carousel/internal/coordinator"
	"github.com/andyrewlee/carousel/internal/ease"
	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/loop"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// Bouncer plays the finite-edge bounce: a short pull out followed by a spring
// back to rest. The real offset is never touched.
type Bouncer struct {
	vp    viewport.Viewport
	coord *coordinator.Coordinator
	sched loop.Scheduler
	cfg   Config
	sink  logging.Scoped

	spring harmonica.Spring
	frame  loop.FrameID
	start  time.Time
	dir    float64
	pos    float64
	vel    float64
	onDone func()
}

// NewBouncer creates a bouncer driving vp's transform.
func NewBouncer(vp viewport.Viewport, coord *coordinator.Coordinator, sched loop.Scheduler, cfg Config, sink logging.Sink) *Bouncer {
	cfg = cfg.Normalize()
	return &Bouncer{
		vp:     vp,
		coord:  coord,
		sched:  sched,
		cfg:    cfg,
		sink:   logging.NewScoped(sink, "bounce"),
		spring: harmonica.NewSpring(harmonica.FPS(60), cfg.SpringFrequency, cfg.SpringDamping),
	}
}

// SetConfig replaces the tuning for the next bounce.
func (b *Bouncer) SetConfig(cfg Config) {
	b.cfg = cfg.Normalize()
	b.spring = harmonica.NewSpring(harmonica.FPS(60), b.cfg.SpringFrequency, b.cfg.SpringDamping)
}

// OnDone registers a callback fired when a bounce finishes.
func (b *Bouncer) OnDone(fn func()) { b.onDone = fn }

// Active reports whether a bounce is running.
func (b *Bouncer) Active() bool { return b.frame != 0 || b.coord.HasTimer(coordinator.TimerBounce) }

// Bounce starts a bounce against the edge in direction (+1 end, -1 start).
// It reports false when the coordinator refuses the bounce.
func (b *Bouncer) Bounce(direction int) bool {
	if b.vp == nil || direction == 0 || b.Active() || b.coord.Phase() != coordinator.Idle {
		return false
	}
	if b.coord.Transition(coordinator.StartBounce{}).Phase != coordinator.Bouncing {
		return false
	}
	b.dir = float64(direction)
	b.start = b.sched.Now()
	b.pos, b.vel = 0, 0
	b.sink.Emit("start", "direction", direction)
	b.frame = b.sched.RequestFrame(b.step)

	var id loop.TimerID
	id = b.sched.AfterFunc(b.cfg.BounceOut+b.cfg.BounceBack, func() {
		b.coord.Release(coordinator.TimerBounce, id)
		b.finish()
	})
	b.coord.Track(coordinator.TimerBounce, id)
	return true
}

func (b *Bouncer) step(now time.Time) {
	b.frame = 0
	elapsed := now.Sub(b.start)
	if elapsed <= b.cfg.BounceOut {
		p := ease.Progress(float64(elapsed), float64(b.cfg.BounceOut))
		b.pos = -b.dir * b.cfg.BounceDistance * ease.OutCubic(p)
		b.vel = 0
	} else {
		b.pos, b.vel = b.spring.Update(b.pos, b.vel, 0)
	}
	b.vp.SetTransform(b.pos)
	b.frame = b.sched.RequestFrame(b.step)
}

func (b *Bouncer) finish() {
	if b.frame != 0 {
		b.sched.CancelFrame(b.frame)
		b.frame = 0
	}
	b.pos, b.vel = 0, 0
	b.vp.SetTransform(0)
	b.coord.Transition(coordinator.EndBounce{})
	b.sink.Emit("end")
	if b.onDone != nil {
		b.onDone()
	}
}

// Stop ends a running bounce immediately with the transform at rest.
func (b *Bouncer) Stop() {
	if !b.Active() {
		return
	}
	b.coord.ClearTimer(coordinator.TimerBounce)
	b.finish()
}
