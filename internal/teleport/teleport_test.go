package teleport

import (
	"testing"
	"time"

	"github.com/andyrewlee/carousel/internal/coordinator"
	"github.com/andyrewlee/carousel/internal/geometry"
	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/loop"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// 24 items, one repetition, stride 174: safe zone [4176, 8352).
var testBuffer = geometry.NewBuffer(24, 24, 174)

type countingEffects struct {
	calls int
	last  float64
}

func (c *countingEffects) Apply(offset float64) int {
	c.calls++
	c.last = offset
	return 0
}

type rig struct {
	loop  *loop.Loop
	sim   *viewport.Sim
	coord *coordinator.Coordinator
	fx    *countingEffects
	rec   *logging.Recorder
	eng   *Engine
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{loop: loop.New(time.Unix(0, 0)), fx: &countingEffects{}, rec: &logging.Recorder{}}
	cfg := viewport.DefaultSimConfig()
	cfg.CardWidth = 150
	cfg.Gap = 24
	r.sim = viewport.NewSim(r.loop, cfg, testBuffer.RenderedCount())
	r.coord = coordinator.New(r.loop, r.rec)
	r.coord.Transition(coordinator.Initialize{})
	r.eng = New(r.sim, r.coord, r.loop, r.fx, Config{}, r.rec)
	r.eng.SetBuffer(testBuffer)
	return r
}

func TestCorrection(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		want   float64
	}{
		{name: "lower bound is safe", offset: 4176, want: 0},
		{name: "inside", offset: 6000, want: 0},
		{name: "just below upper bound", offset: 8351.9, want: 0},
		{name: "upper bound teleports", offset: 8352, want: -4176},
		{name: "past upper bound", offset: 8353, want: -4176},
		{name: "far overshoot", offset: 12600, want: -8352},
		{name: "below lower bound", offset: 4175, want: 4176},
		{name: "start of render", offset: 0, want: 4176},
	}
	for _, tt := range tests {
		if got := Correction(testBuffer, tt.offset); got != tt.want {
			t.Fatalf("%s: Correction(%.1f)=%.1f, want %.1f", tt.name, tt.offset, got, tt.want)
		}
		if landed := tt.offset + Correction(testBuffer, tt.offset); tt.offset >= 0 && !testBuffer.InSafeZone(landed) {
			t.Fatalf("%s: %.1f landed outside the safe zone at %.1f", tt.name, tt.offset, landed)
		}
	}
	if got := Correction(geometry.Buffer{}, 9000); got != 0 {
		t.Fatalf("empty buffer must not teleport, got %.1f", got)
	}
}

func TestReactiveTeleportScenario(t *testing.T) {
	r := newRig(t)
	r.sim.SetScrollOffset(8353)
	if !r.eng.Check(viewport.SourceDrag) {
		t.Fatalf("expected teleport")
	}
	if got := r.sim.ScrollOffset(); got != 4177 {
		t.Fatalf("expected 4177, got %.1f", got)
	}
	if r.fx.calls != 1 || r.fx.last != 4177 {
		t.Fatalf("effects should be re-applied at the new offset, got %+v", r.fx)
	}
	ctx := r.coord.Context()
	if ctx.IsTeleporting || ctx.Phase != coordinator.Idle {
		t.Fatalf("teleport must not leave flags or change phase: %+v", ctx)
	}
	if r.eng.Check(viewport.SourceDrag) {
		t.Fatalf("a corrected offset must not teleport again")
	}
	if s := r.eng.Stats(); s.Reactive != 1 || s.Total() != 1 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestOnScrollCoalescesPerFrame(t *testing.T) {
	r := newRig(t)
	r.sim.SetScrollOffset(9000)
	r.eng.OnScroll(viewport.SourceScrollTick)
	r.eng.OnScroll(viewport.SourceDrag)
	r.eng.OnScroll(viewport.SourceScrollTick)
	r.loop.Advance(50 * time.Millisecond)
	if s := r.eng.Stats(); s.Reactive != 1 {
		t.Fatalf("expected exactly one teleport per crossing, got %+v", s)
	}
	if !testBuffer.InSafeZone(r.sim.ScrollOffset()) {
		t.Fatalf("offset %.1f outside the safe zone", r.sim.ScrollOffset())
	}
}

func TestReactiveSkipGuards(t *testing.T) {
	r := newRig(t)
	r.sim.SetScrollOffset(9000)

	r.coord.Transition(coordinator.ItemClick{Target: 9100})
	if r.eng.Check(viewport.SourceScrollTick) {
		t.Fatalf("scroll ticks during program scrolls must not teleport")
	}
	r.coord.Transition(coordinator.ScrollComplete{})

	r.coord.Transition(coordinator.SetPreTeleporting{Value: true})
	if r.eng.Check(viewport.SourceDrag) {
		t.Fatalf("pre-teleport guard must block reactive teleports")
	}
	r.coord.Transition(coordinator.SetPreTeleporting{Value: false})

	r.eng.SetPlatform(PlatformTouch)
	r.eng.OnScroll(viewport.SourceScrollTick)
	r.loop.Advance(50 * time.Millisecond)
	if r.eng.Stats().Total() != 0 {
		t.Fatalf("touch platform defers teleports, got %+v", r.eng.Stats())
	}
}

func TestDeferredTeleportWaitsForAlignment(t *testing.T) {
	r := newRig(t)
	r.eng.SetPlatform(PlatformTouch)

	r.sim.SetScrollOffset(8352 + 174 + 40)
	if r.eng.OnScrollEnd() {
		t.Fatalf("misaligned resting offset means snap is still in flight")
	}
	r.sim.SetScrollOffset(8352 + 174 + 5)
	if !r.eng.OnScrollEnd() {
		t.Fatalf("aligned resting offset should teleport")
	}
	if got := r.sim.ScrollOffset(); got != 4176+174+5 {
		t.Fatalf("expected %.1f, got %.1f", 4176+174+5.0, got)
	}
	if r.eng.Stats().Deferred != 1 {
		t.Fatalf("unexpected stats %+v", r.eng.Stats())
	}
}

func TestTouchStartSafetyValve(t *testing.T) {
	r := newRig(t)
	r.eng.SetPlatform(PlatformTouch)
	maxScroll := viewport.MaxScroll(r.sim)

	r.sim.SetScrollOffset(maxScroll - 600)
	if r.eng.OnTouchStart() {
		t.Fatalf("offsets away from the physical edge are left alone")
	}
	r.sim.SetScrollOffset(maxScroll - 200)
	if !r.eng.OnTouchStart() {
		t.Fatalf("offsets near the physical edge must be caught")
	}
	if !testBuffer.InSafeZone(r.sim.ScrollOffset()) {
		t.Fatalf("safety valve should land in the safe zone, got %.1f", r.sim.ScrollOffset())
	}
	r.sim.SetScrollOffset(100)
	if !r.eng.OnTouchStart() || r.sim.ScrollOffset() != 4276 {
		t.Fatalf("start edge should teleport forward, got %.1f", r.sim.ScrollOffset())
	}
	if r.eng.Stats().Safety != 2 {
		t.Fatalf("unexpected stats %+v", r.eng.Stats())
	}
}

func TestPreTeleportIdempotentInSafeZone(t *testing.T) {
	r := newRig(t)
	r.sim.SetScrollOffset(5000)
	for _, target := range []float64{4176, 5000, 8351} {
		if got := r.eng.PreTeleport(target); got != target {
			t.Fatalf("PreTeleport(%.0f)=%.1f, want unchanged", target, got)
		}
	}
	if r.coord.Phase() != coordinator.Idle || r.sim.ScrollOffset() != 5000 || r.rec.Count("pre_teleport") != 0 {
		t.Fatalf("safe targets must have no side effects")
	}
}

func TestPreTeleportRewritesOffsetAndTarget(t *testing.T) {
	r := newRig(t)
	r.sim.SetScrollOffset(8352 - 174)
	r.coord.Transition(coordinator.ArrowClick{Direction: 1, Target: 8352})

	adjusted := r.eng.PreTeleport(8352)
	if adjusted != 4176 {
		t.Fatalf("expected adjusted target 4176, got %.1f", adjusted)
	}
	if got := r.sim.ScrollOffset(); got != 4176-174 {
		t.Fatalf("expected offset %.1f, got %.1f", 4176-174.0, got)
	}
	ctx := r.coord.Context()
	if ctx.Phase != coordinator.PreTeleporting || !ctx.IsPreTeleporting || ctx.PendingTarget != 4176 {
		t.Fatalf("unexpected context %+v", ctx)
	}
	if r.eng.Check(viewport.SourceDrag) {
		t.Fatalf("reactive teleport must not race the pre-teleport")
	}

	r.loop.Advance(150 * time.Millisecond)
	ctx = r.coord.Context()
	if ctx.Phase != coordinator.Scrolling || ctx.IsPreTeleporting || !ctx.HasPendingTarget {
		t.Fatalf("guard clear should hand back to Scrolling, got %+v", ctx)
	}
	if r.eng.Stats().Proactive != 1 {
		t.Fatalf("unexpected stats %+v", r.eng.Stats())
	}
}

func TestEmptyBufferIsNoop(t *testing.T) {
	r := newRig(t)
	r.eng.SetBuffer(geometry.Buffer{})
	r.sim.SetScrollOffset(9000)
	if r.eng.Check(viewport.SourceDrag) || r.eng.OnScrollEnd() || r.eng.OnTouchStart() {
		t.Fatalf("empty buffer must never teleport")
	}
	if got := r.eng.PreTeleport(9500); got != 9500 {
		t.Fatalf("empty buffer returns target unchanged, got %.1f", got)
	}
}

func TestPreTeleportRefusedWhileGuarded(t *testing.T) {
	r := newRig(t)
	r.sim.SetScrollOffset(8352 - 174)
	r.coord.Transition(coordinator.ArrowClick{Direction: 1, Target: 8352})
	r.eng.PreTeleport(8352)

	offset := r.sim.ScrollOffset()
	if got := r.eng.PreTeleport(8352 + 174); got != 8352+174 {
		t.Fatalf("guarded pre-teleport must return the target unchanged, got %.1f", got)
	}
	if r.sim.ScrollOffset() != offset {
		t.Fatalf("guarded pre-teleport must not move the offset")
	}
	if r.eng.Stats().Proactive != 1 || r.rec.Count("pre_teleport_refused") != 1 {
		t.Fatalf("unexpected stats %+v", r.eng.Stats())
	}
}
