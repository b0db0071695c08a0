// Package coordinator is the single source of truth for what the carousel is
// doing. Every subsystem asks it for permission before writing the offset.
package coordinator

// Phase is the carousel's activity state.
type Phase int

const (
	Uninitialized Phase = iota
	Idle
	Scrolling
	Bouncing
	PreTeleporting
	Teleporting
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "Uninitialized"
	case Idle:
		return "Idle"
	case Scrolling:
		return "Scrolling"
	case Bouncing:
		return "Bouncing"
	case PreTeleporting:
		return "PreTeleporting"
	case Teleporting:
		return "Teleporting"
	case Dragging:
		return "Dragging"
	default:
		return "Unknown"
	}
}

// Context is the mutable record owned by the Coordinator.
type Context struct {
	Phase            Phase
	PendingTarget    float64
	HasPendingTarget bool
	// ScrollDirection is -1, 1, or 0 when no directional navigation is active.
	ScrollDirection   int
	IsTeleporting     bool
	IsPreTeleporting  bool
	LastActiveItemKey string
}

// Target returns the pending target of a program-driven scroll.
func (c Context) Target() (float64, bool) {
	return c.PendingTarget, c.HasPendingTarget
}

func (c Context) withTarget(target float64) Context {
	c.PendingTarget = target
	c.HasPendingTarget = true
	return c
}

func (c Context) clearTarget() Context {
	c.PendingTarget = 0
	c.HasPendingTarget = false
	c.ScrollDirection = 0
	return c
}
