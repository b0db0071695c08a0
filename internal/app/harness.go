package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/carousel/internal/carousel"
	"github.com/andyrewlee/carousel/internal/config"
	"github.com/andyrewlee/carousel/internal/store"
)

// Harness scenarios.
const (
	ScenarioRapid = "rapid"
	ScenarioDrag  = "drag"
	ScenarioFling = "fling"
	ScenarioWrap  = "wrap"
)

// Scenarios lists the scenarios in run order.
var Scenarios = []string{ScenarioRapid, ScenarioDrag, ScenarioFling, ScenarioWrap}

// HarnessOptions configures the headless harness.
type HarnessOptions struct {
	Scenario string
	Items    int
	Width    int
	Height   int
	Finite   bool
	// Render renders a frame after every step so view cost is measured.
	Render bool
}

// HarnessResult summarizes one scenario run.
type HarnessResult struct {
	Scenario string
	Frames   int
	Final    carousel.State
	// Trail is every distinct active item in order.
	Trail   []int
	Renders []time.Duration
}

// Harness drives the host with synthetic input on a virtual clock.
type Harness struct {
	app    *App
	opts   HarnessOptions
	now    time.Time
	frame  time.Duration
	result HarnessResult
}

// NewHarness builds a mounted headless host.
func NewHarness(opts HarnessOptions) (*Harness, error) {
	if opts.Items <= 0 {
		opts.Items = 8
	}
	if opts.Width <= 0 {
		opts.Width = 160
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	switch opts.Scenario {
	case ScenarioRapid, ScenarioDrag, ScenarioFling, ScenarioWrap:
	default:
		return nil, fmt.Errorf("unknown scenario %q", opts.Scenario)
	}

	cfg := &config.Config{
		Tunables:    config.DefaultTunables(),
		UI:          config.UISettings{Finite: opts.Finite, Touch: opts.Scenario == ScenarioFling},
		Persistence: config.PersistenceConfig{Backend: store.BackendMemory},
	}
	start := time.Unix(0, 0)
	a := New(cfg, Options{
		Items:      opts.Items,
		PersistKey: "harness",
		Store:      store.NewMemory(),
		Clock:      start,
		NoWatch:    true,
	})
	h := &Harness{
		app:    a,
		opts:   opts,
		now:    start,
		frame:  a.loop.FrameInterval(),
		result: HarnessResult{Scenario: opts.Scenario},
	}
	h.Send(tea.WindowSizeMsg{Width: opts.Width, Height: opts.Height})
	h.record()
	return h, nil
}

// App exposes the host under test.
func (h *Harness) App() *App { return h.app }

// Send delivers msg to the host. Commands are not run.
func (h *Harness) Send(msg tea.Msg) {
	h.app.Update(msg)
}

// Step advances the virtual clock by d in frame-sized ticks.
func (h *Harness) Step(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += h.frame {
		h.now = h.now.Add(h.frame)
		h.app.loop.AdvanceTo(h.now)
		h.result.Frames++
		h.record()
		if h.opts.Render {
			start := time.Now()
			_ = h.Render()
			h.result.Renders = append(h.result.Renders, time.Since(start))
		}
	}
}

// Render renders the current frame.
func (h *Harness) Render() tea.View { return h.app.View() }

func (h *Harness) record() {
	active := h.app.Snapshot().Active
	if active < 0 {
		return
	}
	if n := len(h.result.Trail); n == 0 || h.result.Trail[n-1] != active {
		h.result.Trail = append(h.result.Trail, active)
	}
}

func (h *Harness) key(code rune, text string) {
	h.Send(tea.KeyPressMsg{Code: code, Text: text})
}

// Run plays the scenario and lets the carousel settle.
func (h *Harness) Run() HarnessResult {
	switch h.opts.Scenario {
	case ScenarioRapid:
		for i := 0; i < 5; i++ {
			h.key(tea.KeyRight, "")
			h.Step(40 * time.Millisecond)
		}
	case ScenarioDrag:
		y := h.opts.Height / 2
		x := h.opts.Width / 2
		h.Send(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
		for i := 1; i <= 8; i++ {
			h.Step(h.frame)
			h.Send(tea.MouseMotionMsg{X: x - 4*i, Y: y, Button: tea.MouseLeft})
		}
		h.Send(tea.MouseReleaseMsg{X: x - 32, Y: y, Button: tea.MouseLeft})
	case ScenarioFling:
		h.key('f', "f")
	case ScenarioWrap:
		for i := 0; i < h.opts.Items+2; i++ {
			h.key(tea.KeyRight, "")
			h.Step(600 * time.Millisecond)
		}
	}
	h.Step(3 * time.Second)
	h.result.Final = h.app.Snapshot()
	return h.result
}

// Close unmounts the host.
func (h *Harness) Close() { h.app.Shutdown() }
