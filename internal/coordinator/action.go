package coordinator

import "fmt"

// Action is an input to Reduce.
type Action interface {
	actionName() string
}

type (
	// Initialize moves a freshly mounted carousel to Idle.
	Initialize struct{}
	// ArrowClick starts or extends directional navigation.
	ArrowClick struct {
		Direction int
		Target    float64
	}
	// ItemClick starts navigation to a specific item.
	ItemClick struct{ Target float64 }
	// ScrollComplete ends a program-driven scroll.
	ScrollComplete struct{}
	// UserInterrupt cancels a program-driven scroll in favor of user input.
	UserInterrupt struct{}
	StartBounce   struct{}
	EndBounce     struct{}
	// StartPreTeleport marks a proactive teleport of an in-flight scroll.
	StartPreTeleport struct{}
	// SetPendingTarget rewrites the target regardless of phase.
	SetPendingTarget struct{ Target float64 }
	SetPreTeleporting struct{ Value bool }
	// SetTeleporting toggles the teleport guard without changing phase.
	SetTeleporting struct{ Value bool }
	DragStart      struct{}
	DragEnd        struct{}
	// SetActiveItem records the last reported active item key.
	SetActiveItem struct{ Key string }
)

func (Initialize) actionName() string       { return "Initialize" }
func (a ArrowClick) actionName() string     { return fmt.Sprintf("ArrowClick(%+d,%.1f)", a.Direction, a.Target) }
func (a ItemClick) actionName() string      { return fmt.Sprintf("ItemClick(%.1f)", a.Target) }
func (ScrollComplete) actionName() string   { return "ScrollComplete" }
func (UserInterrupt) actionName() string    { return "UserInterrupt" }
func (StartBounce) actionName() string      { return "StartBounce" }
func (EndBounce) actionName() string        { return "EndBounce" }
func (StartPreTeleport) actionName() string { return "StartPreTeleport" }
func (a SetPendingTarget) actionName() string {
	return fmt.Sprintf("SetPendingTarget(%.1f)", a.Target)
}
func (a SetPreTeleporting) actionName() string { return fmt.Sprintf("SetPreTeleporting(%t)", a.Value) }
func (a SetTeleporting) actionName() string    { return fmt.Sprintf("SetTeleporting(%t)", a.Value) }
func (DragStart) actionName() string           { return "DragStart" }
func (DragEnd) actionName() string             { return "DragEnd" }
func (a SetActiveItem) actionName() string     { return "SetActiveItem(" + a.Key + ")" }

// Name returns a printable description of a.
func Name(a Action) string {
	if a == nil {
		return "<nil>"
	}
	return a.actionName()
}
