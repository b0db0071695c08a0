package coordinator

import (
	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/loop"
)

// TimerKind names a timer slot owned by the coordinator.
type TimerKind int

const (
	TimerBounce TimerKind = iota
	TimerSnap
	TimerIdle
	TimerSafety
	TimerPreTeleportGuard
	timerKinds
)

// Coordinator serializes every phase change of one carousel instance.
type Coordinator struct {
	ctx       Context
	sched     loop.Scheduler
	sink      logging.Scoped
	listeners []func(prev, next Context)
	timers    [timerKinds]loop.TimerID
}

// New creates a coordinator in the Uninitialized phase.
func New(sched loop.Scheduler, sink logging.Sink) *Coordinator {
	return &Coordinator{
		sched: sched,
		sink:  logging.NewScoped(sink, "coordinator"),
	}
}

// Transition applies a and returns the resulting context.
func (c *Coordinator) Transition(a Action) Context {
	prev := c.ctx
	next := Reduce(prev, a)
	if next == prev {
		c.sink.Emit("ignored", "action", Name(a), "phase", prev.Phase)
		return next
	}
	c.ctx = next
	if next.Phase != prev.Phase {
		c.sink.Emit("transition", "action", Name(a), "from", prev.Phase, "to", next.Phase)
	} else {
		c.sink.Emit("update", "action", Name(a), "phase", next.Phase)
	}
	for _, fn := range c.listeners {
		fn(prev, next)
	}
	return next
}

// Subscribe registers fn for every effective context change.
func (c *Coordinator) Subscribe(fn func(prev, next Context)) {
	if fn != nil {
		c.listeners = append(c.listeners, fn)
	}
}

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase { return c.ctx.Phase }

// Context returns a copy of the current context.
func (c *Coordinator) Context() Context { return c.ctx }

// IsBusy reports whether any activity is in progress.
func (c *Coordinator) IsBusy() bool {
	return c.ctx.Phase != Uninitialized && c.ctx.Phase != Idle
}

// IsBlocking reports whether new navigation must wait.
func (c *Coordinator) IsBlocking() bool {
	switch c.ctx.Phase {
	case Bouncing, PreTeleporting, Teleporting:
		return true
	}
	return c.ctx.IsTeleporting || c.ctx.IsPreTeleporting
}

// Track records a timer under kind, cancelling the previous one.
func (c *Coordinator) Track(kind TimerKind, id loop.TimerID) {
	if kind < 0 || kind >= timerKinds {
		return
	}
	c.ClearTimer(kind)
	c.timers[kind] = id
}

// Release forgets a fired timer without cancelling it.
func (c *Coordinator) Release(kind TimerKind, id loop.TimerID) {
	if kind >= 0 && kind < timerKinds && c.timers[kind] == id {
		c.timers[kind] = 0
	}
}

// ClearTimer cancels the timer tracked under kind.
func (c *Coordinator) ClearTimer(kind TimerKind) {
	if kind < 0 || kind >= timerKinds {
		return
	}
	if id := c.timers[kind]; id != 0 {
		if c.sched != nil {
			c.sched.CancelTimer(id)
		}
		c.timers[kind] = 0
	}
}

// HasTimer reports whether a timer is tracked under kind.
func (c *Coordinator) HasTimer(kind TimerKind) bool {
	return kind >= 0 && kind < timerKinds && c.timers[kind] != 0
}

// Dispose cancels every tracked timer.
func (c *Coordinator) Dispose() {
	for k := TimerKind(0); k < timerKinds; k++ {
		c.ClearTimer(k)
	}
}
