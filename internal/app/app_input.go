package app

import (
	"encoding/json"
	"strconv"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/carousel/internal/messages"
	"github.com/andyrewlee/carousel/internal/physics"
	"github.com/andyrewlee/carousel/internal/ui/carouselview"
	"github.com/andyrewlee/carousel/internal/ui/common"
)

// flingSpeed is the keyboard fling velocity in px per frame.
const flingSpeed = 40

func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	km := a.keymap
	switch {
	case key.Matches(msg, km.Quit):
		a.quitting = true
		a.Shutdown()
		return tea.Quit
	case key.Matches(msg, km.Help):
		a.showHelp = !a.showHelp
		return nil
	}
	if a.car == nil {
		return nil
	}

	switch {
	case key.Matches(msg, km.Prev):
		a.car.Navigate(-1)
	case key.Matches(msg, km.Next):
		a.car.Navigate(1)
	case key.Matches(msg, km.First):
		a.car.ScrollToIndex(0)
	case key.Matches(msg, km.Last):
		a.car.ScrollToIndex(a.items - 1)
	case key.Matches(msg, km.Jump):
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= a.items {
			a.car.ScrollToIndex(n - 1)
		}
	case key.Matches(msg, km.Fling):
		return a.fling()
	case key.Matches(msg, km.Finite):
		return a.toggleFinite()
	case key.Matches(msg, km.Touch):
		return a.toggleTouch()
	case key.Matches(msg, km.Copy):
		return a.copyState()
	}
	return nil
}

func (a *App) fling() tea.Cmd {
	if !a.touch {
		return func() tea.Msg {
			return messages.Toast{Message: "fling needs touch mode", Level: messages.ToastWarning}
		}
	}
	a.car.TouchStart()
	a.car.Fling(flingSpeed)
	return nil
}

func (a *App) toggleFinite() tea.Cmd {
	a.infinite = !a.infinite
	a.car.SetInfinite(a.infinite)
	a.config.UI.Finite = !a.infinite
	return a.saveUI()
}

func (a *App) toggleTouch() tea.Cmd {
	a.touch = !a.touch
	a.car.SetPlatform(a.platform())
	a.config.UI.Touch = a.touch
	return a.saveUI()
}

func (a *App) saveUI() tea.Cmd {
	cfg := a.config
	ui := cfg.UI
	return common.SafeCmd(func() tea.Msg {
		c := *cfg
		c.UI = ui
		if err := c.SaveUISettings(); err != nil {
			return messages.Error{Err: err, Context: "save settings"}
		}
		return nil
	})
}

type stateDump struct {
	Phase     string  `json:"phase"`
	Offset    float64 `json:"offset"`
	Active    int     `json:"active"`
	Stride    float64 `json:"stride"`
	Items     int     `json:"items"`
	Infinite  bool    `json:"infinite"`
	Teleports int     `json:"teleports"`
	Platform  string  `json:"platform"`
}

func (a *App) copyState() tea.Cmd {
	s := a.car.Snapshot()
	dump := stateDump{
		Phase:     s.Phase.String(),
		Offset:    s.Offset,
		Active:    s.Active,
		Stride:    s.Layout.Stride(),
		Items:     s.Items,
		Infinite:  s.Infinite,
		Teleports: s.Teleports.Total(),
		Platform:  s.Platform.String(),
	}
	return common.SafeCmd(func() tea.Msg {
		data, err := json.Marshal(dump)
		if err != nil {
			return messages.Error{Err: err, Context: "copy state"}
		}
		if err := common.CopyToClipboard(string(data)); err != nil {
			return messages.Error{Err: err, Context: "copy state"}
		}
		return messages.Toast{Message: "state copied", Level: messages.ToastSuccess}
	})
}

func (a *App) handleMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	if a.car == nil || msg.Button != tea.MouseLeft {
		return nil
	}
	hit := a.view.HitTest(a.sim, msg.X, msg.Y)
	switch hit.Kind {
	case carouselview.HitPrev:
		a.car.Navigate(-1)
		return nil
	case carouselview.HitNext:
		a.car.Navigate(1)
		return nil
	case carouselview.HitMode:
		return a.toggleFinite()
	case carouselview.HitPlatform:
		return a.toggleTouch()
	}

	x := a.view.PixelX(msg.X)
	a.press = hit
	a.pressed = true
	a.lastX = x
	a.touchV = 0
	a.car.PointerDown(physics.Pointer{X: x, Touch: a.touch})
	return nil
}

func (a *App) handleMouseMotion(msg tea.MouseMotionMsg) {
	if a.car == nil || !a.pressed {
		return
	}
	x := a.view.PixelX(msg.X)
	if a.touch {
		// Touch panning is native scrolling: the engine only observes it.
		dx := x - a.lastX
		a.touchV = -dx
		a.sim.SetScrollOffset(a.sim.ScrollOffset() - dx)
	} else {
		a.car.PointerMove(physics.Pointer{X: x})
	}
	a.lastX = x
}

func (a *App) handleMouseRelease(msg tea.MouseReleaseMsg) {
	if a.car == nil || !a.pressed {
		return
	}
	a.pressed = false
	x := a.view.PixelX(msg.X)
	if a.touch {
		if a.touchV != 0 {
			a.car.Fling(a.touchV)
			return
		}
		a.clickCard()
		return
	}
	if !a.car.PointerUp(physics.Pointer{X: x}) {
		a.clickCard()
	}
}

func (a *App) clickCard() {
	if a.press.Kind != carouselview.HitCard {
		return
	}
	buf := a.car.Snapshot().Buffer
	logical := a.press.Index
	if buf.Items > 0 {
		logical = buf.LogicalIndex(a.press.Index)
	}
	a.car.ScrollToIndex(logical)
}

func (a *App) handleMouseWheel(msg tea.MouseWheelMsg) {
	if a.car == nil {
		return
	}
	step := a.car.Snapshot().Layout.Stride() / 2
	switch msg.Button {
	case tea.MouseWheelDown, tea.MouseWheelRight:
		a.car.Wheel(step)
	case tea.MouseWheelUp, tea.MouseWheelLeft:
		a.car.Wheel(-step)
	}
}
