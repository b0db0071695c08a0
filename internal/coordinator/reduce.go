package coordinator

// Reduce applies a to ctx. Illegal transitions return ctx unchanged.
func Reduce(ctx Context, a Action) Context {
	switch a := a.(type) {
	case Initialize:
		if ctx.Phase == Uninitialized {
			ctx.Phase = Idle
		}

	case ArrowClick:
		if ctx.Phase != Idle && ctx.Phase != Scrolling {
			return ctx
		}
		ctx = ctx.withTarget(a.Target)
		ctx.Phase = Scrolling
		ctx.ScrollDirection = sign(a.Direction)

	case ItemClick:
		if ctx.Phase != Idle && ctx.Phase != Scrolling {
			return ctx
		}
		ctx = ctx.withTarget(a.Target)
		ctx.Phase = Scrolling
		ctx.ScrollDirection = 0

	case ScrollComplete:
		if ctx.Phase != Scrolling {
			return ctx
		}
		ctx = ctx.clearTarget()
		ctx.Phase = Idle

	case UserInterrupt:
		if ctx.Phase != Scrolling && ctx.Phase != PreTeleporting {
			return ctx
		}
		ctx = ctx.clearTarget()
		ctx.Phase = Idle

	case StartBounce:
		if ctx.Phase == Idle {
			ctx.Phase = Bouncing
		}

	case EndBounce:
		if ctx.Phase == Bouncing {
			ctx.Phase = Idle
		}

	case StartPreTeleport:
		if ctx.Phase == Scrolling {
			ctx.Phase = PreTeleporting
			ctx.IsPreTeleporting = true
		}

	case SetPendingTarget:
		ctx = ctx.withTarget(a.Target)

	case SetPreTeleporting:
		ctx.IsPreTeleporting = a.Value
		if !a.Value && ctx.Phase == PreTeleporting {
			if ctx.HasPendingTarget {
				ctx.Phase = Scrolling
			} else {
				ctx.Phase = Idle
			}
		}

	case SetTeleporting:
		ctx.IsTeleporting = a.Value

	case DragStart:
		switch ctx.Phase {
		case Idle, Scrolling, PreTeleporting, Dragging:
			ctx = ctx.clearTarget()
			ctx.Phase = Dragging
		}

	case DragEnd:
		if ctx.Phase == Dragging {
			ctx.Phase = Idle
		}

	case SetActiveItem:
		ctx.LastActiveItemKey = a.Key
	}
	return ctx
}

func sign(d int) int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}
