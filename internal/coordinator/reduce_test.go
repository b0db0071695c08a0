package coordinator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func idle() Context { return Context{Phase: Idle} }

func scrolling(target float64, dir int) Context {
	return Context{Phase: Scrolling, PendingTarget: target, HasPendingTarget: true, ScrollDirection: dir}
}

func TestReduceTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   Context
		action Action
		want   Context
	}{
		{"initialize", Context{}, Initialize{}, idle()},
		{"initialize twice is ignored", idle(), Initialize{}, idle()},
		{"arrow from idle", idle(), ArrowClick{Direction: 1, Target: 672}, scrolling(672, 1)},
		{"arrow while scrolling", scrolling(672, 1), ArrowClick{Direction: 1, Target: 896}, scrolling(896, 1)},
		{"arrow while bouncing", Context{Phase: Bouncing}, ArrowClick{Direction: 1, Target: 10}, Context{Phase: Bouncing}},
		{
			"arrow while pre-teleporting",
			Context{Phase: PreTeleporting, PendingTarget: 5, HasPendingTarget: true, IsPreTeleporting: true},
			ArrowClick{Direction: -1, Target: 1},
			Context{Phase: PreTeleporting, PendingTarget: 5, HasPendingTarget: true, IsPreTeleporting: true},
		},
		{"item click clears direction", scrolling(100, -1), ItemClick{Target: 300}, scrolling(300, 0)},
		{"complete from scrolling", scrolling(672, 1), ScrollComplete{}, idle()},
		{"complete from idle ignored", idle(), ScrollComplete{}, idle()},
		{"interrupt scrolling", scrolling(672, 1), UserInterrupt{}, idle()},
		{"interrupt idle ignored", idle(), UserInterrupt{}, idle()},
		{"bounce from idle", idle(), StartBounce{}, Context{Phase: Bouncing}},
		{"bounce while scrolling ignored", scrolling(1, 1), StartBounce{}, scrolling(1, 1)},
		{"end bounce", Context{Phase: Bouncing}, EndBounce{}, idle()},
		{
			"start pre-teleport",
			scrolling(9000, 1),
			StartPreTeleport{},
			Context{Phase: PreTeleporting, PendingTarget: 9000, HasPendingTarget: true, ScrollDirection: 1, IsPreTeleporting: true},
		},
		{"pre-teleport from idle ignored", idle(), StartPreTeleport{}, idle()},
		{
			"set pending target is unconditional",
			Context{Phase: Bouncing},
			SetPendingTarget{Target: 42},
			Context{Phase: Bouncing, PendingTarget: 42, HasPendingTarget: true},
		},
		{
			"end pre-teleport resumes scrolling",
			Context{Phase: PreTeleporting, PendingTarget: 4824, HasPendingTarget: true, IsPreTeleporting: true},
			SetPreTeleporting{Value: false},
			Context{Phase: Scrolling, PendingTarget: 4824, HasPendingTarget: true},
		},
		{
			"end pre-teleport without target goes idle",
			Context{Phase: PreTeleporting, IsPreTeleporting: true},
			SetPreTeleporting{Value: false},
			idle(),
		},
		{
			"end pre-teleport elsewhere only clears flag",
			Context{Phase: Dragging, IsPreTeleporting: true},
			SetPreTeleporting{Value: false},
			Context{Phase: Dragging},
		},
		{
			"teleport flag keeps phase",
			scrolling(3, 1),
			SetTeleporting{Value: true},
			Context{Phase: Scrolling, PendingTarget: 3, HasPendingTarget: true, ScrollDirection: 1, IsTeleporting: true},
		},
		{"drag from scrolling clears target", scrolling(3, 1), DragStart{}, Context{Phase: Dragging}},
		{"drag while bouncing ignored", Context{Phase: Bouncing}, DragStart{}, Context{Phase: Bouncing}},
		{"drag end", Context{Phase: Dragging}, DragEnd{}, idle()},
		{"active item key", idle(), SetActiveItem{Key: "3"}, Context{Phase: Idle, LastActiveItemKey: "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.from, tt.action)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Reduce mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPendingTargetInvariant(t *testing.T) {
	actions := []Action{
		Initialize{}, ArrowClick{Direction: 1, Target: 224}, ArrowClick{Direction: 1, Target: 448},
		StartPreTeleport{}, SetPendingTarget{Target: 10}, SetPreTeleporting{Value: false},
		ScrollComplete{}, StartBounce{}, ArrowClick{Direction: -1, Target: 0}, EndBounce{},
		ItemClick{Target: 90}, UserInterrupt{}, DragStart{}, DragEnd{},
	}
	ctx := Context{}
	for _, a := range actions {
		ctx = Reduce(ctx, a)
		if _, ok := a.(SetPendingTarget); ok {
			continue
		}
		active := ctx.Phase == Scrolling || ctx.Phase == PreTeleporting
		if ctx.HasPendingTarget != active {
			t.Fatalf("after %s: target=%v phase=%s", Name(a), ctx.HasPendingTarget, ctx.Phase)
		}
	}
}
