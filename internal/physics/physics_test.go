package physics

import (
	"math"
	"testing"
	"time"

	"github.com/andyrewlee/carousel/internal/coordinator"
	"github.com/andyrewlee/carousel/internal/loop"
	"github.com/andyrewlee/carousel/internal/viewport"
)

const pitch = 304.0

type rig struct {
	loop    *loop.Loop
	sim     *viewport.Sim
	coord   *coordinator.Coordinator
	bouncer *Bouncer
	drag    *Dragger
	settled int
}

func newRig(t *testing.T, infinite bool) *rig {
	t.Helper()
	r := &rig{loop: loop.New(time.Unix(0, 0))}
	r.sim = viewport.NewSim(r.loop, viewport.DefaultSimConfig(), 10)
	r.coord = coordinator.New(r.loop, nil)
	r.coord.Transition(coordinator.Initialize{})
	r.bouncer = NewBouncer(r.sim, r.coord, r.loop, Config{}, nil)
	r.drag = NewDragger(r.sim, r.sim, r.coord, r.loop, r.bouncer, Config{}, DraggerOptions{
		Infinite: func() bool { return infinite },
		Settled:  func() { r.settled++ },
	}, nil)
	return r
}

// swipe presses at x0 and moves the pointer by step every frame, n times.
func (r *rig) swipe(x0, step float64, n int) float64 {
	r.drag.PointerDown(Pointer{X: x0})
	x := x0
	for i := 0; i < n; i++ {
		r.loop.Advance(Frame)
		x += step
		r.drag.PointerMove(Pointer{X: x})
	}
	return x
}

func TestRubberBand(t *testing.T) {
	tests := []struct {
		pull float64
		want float64
	}{
		{pull: 0, want: 0},
		{pull: 120, want: -120},
		{pull: 480, want: -120},
		{pull: -30, want: 60},
	}
	for _, tt := range tests {
		if got := RubberBand(tt.pull, 120); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("RubberBand(%.0f)=%.3f, want %.3f", tt.pull, got, tt.want)
		}
	}
}

func TestNearestAnchor(t *testing.T) {
	r := newRig(t, false)
	cw := r.sim.ClientWidth()
	tests := []struct {
		name      string
		offset    float64
		direction int
		want      float64
	}{
		{name: "closest", offset: 650, direction: 0, want: 2 * pitch},
		{name: "ahead right", offset: 650, direction: 1, want: 3 * pitch},
		{name: "ahead left", offset: 650, direction: -1, want: 2 * pitch},
		{name: "none ahead", offset: 9*pitch + 100, direction: 1, want: 9 * pitch},
	}
	for _, tt := range tests {
		got, ok := NearestAnchor(r.sim, tt.offset, cw, tt.direction)
		if !ok || got != tt.want {
			t.Fatalf("%s: got %.1f %v, want %.1f", tt.name, got, ok, tt.want)
		}
	}
	r.sim.SetReady(false)
	if _, ok := NearestAnchor(r.sim, 0, cw, 0); ok {
		t.Fatalf("unmeasured children have no anchor")
	}
}

func TestPressBelowThresholdIsClick(t *testing.T) {
	r := newRig(t, false)
	r.sim.SetScrollOffset(pitch)
	r.drag.PointerDown(Pointer{X: 100})
	r.drag.PointerMove(Pointer{X: 105})
	if r.drag.PointerUp(Pointer{X: 105}) {
		t.Fatalf("small movement should stay a click")
	}
	if r.sim.ScrollOffset() != pitch || r.coord.Phase() != coordinator.Idle {
		t.Fatalf("click must not scroll, offset=%.1f phase=%s", r.sim.ScrollOffset(), r.coord.Phase())
	}
}

func TestTouchPointersAreIgnored(t *testing.T) {
	r := newRig(t, false)
	r.drag.PointerDown(Pointer{X: 100, Touch: true})
	r.drag.PointerMove(Pointer{X: 300, Touch: true})
	if r.drag.State() != GestureIdle || r.sim.ScrollOffset() != 0 {
		t.Fatalf("touch input belongs to native scrolling")
	}
}

func TestDragMovesOffsetAndCapturesPointer(t *testing.T) {
	r := newRig(t, false)
	r.sim.SetScrollOffset(2 * pitch)
	r.drag.PointerDown(Pointer{X: 500})
	r.drag.PointerMove(Pointer{X: 480})
	if got := r.sim.ScrollOffset(); got != 2*pitch+20 {
		t.Fatalf("expected offset %.1f, got %.1f", 2*pitch+20, got)
	}
	if r.drag.State() != GestureDragging || r.coord.Phase() != coordinator.Dragging {
		t.Fatalf("expected dragging, got %s/%s", r.drag.State(), r.coord.Phase())
	}
	if !r.sim.PointerCaptured() || r.sim.SnapEnabled() {
		t.Fatalf("drag should capture the pointer and disable snap")
	}
}

func TestEdgePullRoundTrip(t *testing.T) {
	r := newRig(t, false)
	r.drag.PointerDown(Pointer{X: 500})
	r.drag.PointerMove(Pointer{X: 560})
	if r.drag.State() != GestureEdgePulling {
		t.Fatalf("expected edge pulling, got %s", r.drag.State())
	}
	if got := r.sim.Transform(); math.Abs(got-math.Sqrt(0.5)*120) > 1e-9 {
		t.Fatalf("unexpected rubber band transform %.3f", got)
	}
	if !r.drag.PointerUp(Pointer{X: 560}) {
		t.Fatalf("edge pull is a drag")
	}
	for i := 0; i < 20; i++ {
		r.loop.Advance(Frame)
		if r.sim.ScrollOffset() != 0 {
			t.Fatalf("real offset moved during snap-back: %.2f", r.sim.ScrollOffset())
		}
	}
	if r.sim.Transform() != 0 {
		t.Fatalf("transform should return to 0, got %.3f", r.sim.Transform())
	}
	if r.drag.State() != GestureIdle || r.coord.Phase() != coordinator.Idle || r.settled != 1 {
		t.Fatalf("expected settled idle state, got %s/%s settled=%d", r.drag.State(), r.coord.Phase(), r.settled)
	}
}

func TestMomentumSnapsToAnchorAhead(t *testing.T) {
	r := newRig(t, false)
	r.sim.SetScrollOffset(2 * pitch)
	r.swipe(500, -60, 2)
	released := r.sim.ScrollOffset()
	if !r.drag.PointerUp(Pointer{}) {
		t.Fatalf("expected drag")
	}
	if r.drag.State() != GestureMomentum {
		t.Fatalf("expected momentum, got %s", r.drag.State())
	}
	r.loop.Advance(3 * time.Second)

	got := r.sim.ScrollOffset()
	if got <= released {
		t.Fatalf("momentum should carry forward: released at %.1f, rest at %.1f", released, got)
	}
	if idx := got / pitch; math.Abs(idx-math.Round(idx)) > 1e-6 {
		t.Fatalf("expected rest on an anchor, got %.4f", got)
	}
	if r.drag.State() != GestureIdle || !r.sim.SnapEnabled() || r.settled != 1 {
		t.Fatalf("expected idle with snap restored, state=%s settled=%d", r.drag.State(), r.settled)
	}
}

func TestMomentumBouncesAtFiniteEdge(t *testing.T) {
	r := newRig(t, false)
	maxScroll := viewport.MaxScroll(r.sim)
	r.sim.SetScrollOffset(maxScroll - 136)
	r.swipe(500, -60, 2)
	r.drag.PointerUp(Pointer{})

	r.loop.Advance(50 * time.Millisecond)
	if r.coord.Phase() != coordinator.Bouncing {
		t.Fatalf("expected bounce at the end, got %s", r.coord.Phase())
	}
	if r.sim.Transform() >= 0 {
		t.Fatalf("end bounce pulls content left, transform=%.2f", r.sim.Transform())
	}
	if r.sim.ScrollOffset() != maxScroll {
		t.Fatalf("offset should rest at the edge, got %.1f", r.sim.ScrollOffset())
	}

	r.loop.Advance(time.Second)
	if r.sim.Transform() != 0 || r.coord.Phase() != coordinator.Idle {
		t.Fatalf("bounce should end at rest, transform=%.3f phase=%s", r.sim.Transform(), r.coord.Phase())
	}
}

func TestInfiniteDragHasNoEdges(t *testing.T) {
	r := newRig(t, true)
	r.drag.PointerDown(Pointer{X: 500})
	r.drag.PointerMove(Pointer{X: 560})
	if r.drag.State() != GestureDragging || r.sim.Transform() != 0 {
		t.Fatalf("infinite carousels never rubber band, state=%s", r.drag.State())
	}
}

func TestCancelTerminatesDrag(t *testing.T) {
	r := newRig(t, false)
	r.sim.SetScrollOffset(2 * pitch)
	r.drag.PointerDown(Pointer{X: 500})
	r.drag.PointerMove(Pointer{X: 400})
	r.drag.Cancel()
	if r.sim.PointerCaptured() || r.coord.Phase() != coordinator.Idle {
		t.Fatalf("cancel must release capture and end the drag")
	}
	r.loop.Advance(time.Second)
	if r.drag.State() != GestureIdle {
		t.Fatalf("expected idle after cancel, got %s", r.drag.State())
	}
	if idx := r.sim.ScrollOffset() / pitch; math.Abs(idx-math.Round(idx)) > 1e-6 {
		t.Fatalf("cancelled drag should settle on an anchor, got %.2f", r.sim.ScrollOffset())
	}
}

func TestBouncerRefusedOutsideIdle(t *testing.T) {
	r := newRig(t, false)
	done := 0
	r.bouncer.OnDone(func() { done++ })

	r.coord.Transition(coordinator.ItemClick{Target: pitch})
	if r.bouncer.Bounce(1) {
		t.Fatalf("bounce is only reachable from Idle")
	}
	r.coord.Transition(coordinator.ScrollComplete{})

	if !r.bouncer.Bounce(-1) {
		t.Fatalf("expected bounce from Idle")
	}
	if r.bouncer.Bounce(-1) {
		t.Fatalf("bounce must not stack")
	}
	r.loop.Advance(100 * time.Millisecond)
	if r.sim.Transform() <= 0 {
		t.Fatalf("start bounce pulls content right, got %.2f", r.sim.Transform())
	}
	r.loop.Advance(600 * time.Millisecond)
	if r.sim.Transform() != 0 || r.coord.Phase() != coordinator.Idle || done != 1 {
		t.Fatalf("bounce should finish at rest, transform=%.3f phase=%s done=%d", r.sim.Transform(), r.coord.Phase(), done)
	}
}
