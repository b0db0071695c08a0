package geometry

import (
	"time"

	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/loop"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// DefaultResizeDebounce delays re-measurement after size changes.
const DefaultResizeDebounce = 150 * time.Millisecond

// MeasurerConfig holds the fallback layout used before children render.
type MeasurerConfig struct {
	FallbackCardWidth float64
	// Gap is the declared gap. Zero derives the gap from measured geometry.
	Gap            float64
	ResizeDebounce time.Duration
}

// Measurer derives a Layout from rendered children.
type Measurer struct {
	cfg      MeasurerConfig
	renderer viewport.ItemRenderer
	sched    loop.Scheduler
	sink     logging.Scoped

	observed bool
	timer    loop.TimerID
	last     Layout
	onChange func(Layout)
}

// NewMeasurer creates a measurer over renderer.
func NewMeasurer(renderer viewport.ItemRenderer, sched loop.Scheduler, cfg MeasurerConfig, sink logging.Sink) *Measurer {
	if cfg.ResizeDebounce <= 0 {
		cfg.ResizeDebounce = DefaultResizeDebounce
	}
	return &Measurer{
		cfg:      cfg,
		renderer: renderer,
		sched:    sched,
		sink:     logging.NewScoped(sink, "geometry"),
	}
}

// OnChange registers the callback fired when a measurement changes the layout.
func (m *Measurer) OnChange(fn func(Layout)) { m.onChange = fn }

// Layout returns the last known layout.
func (m *Measurer) Layout() Layout { return m.last }

// Fallback returns the static layout used when nothing is rendered.
func (m *Measurer) Fallback() Layout {
	return Layout{CardWidth: m.cfg.FallbackCardWidth, Gap: m.cfg.Gap}
}

// Measure reads geometry from the renderer. It reports false when the first
// child is not yet measured.
func (m *Measurer) Measure() (Layout, bool) {
	if m.renderer == nil || m.renderer.RenderedCount() == 0 {
		return Layout{}, false
	}
	first, ok := m.renderer.ItemGeometry(0)
	if !ok || first.Width <= 0 {
		return Layout{}, false
	}
	l := Layout{CardWidth: first.Width, Gap: m.cfg.Gap}
	if second, ok := m.renderer.ItemGeometry(1); ok {
		l.DOMStride = second.Left - first.Left
		if m.cfg.Gap == 0 && l.DOMStride > first.Width {
			l.Gap = l.DOMStride - first.Width
		}
	}
	return l, true
}

// Observe handles a resize or font-load notification. The first observation
// applies immediately; later ones are debounced.
func (m *Measurer) Observe() {
	if !m.observed {
		m.observed = true
		m.Remeasure()
		return
	}
	if m.timer != 0 {
		m.sched.CancelTimer(m.timer)
	}
	m.timer = m.sched.AfterFunc(m.cfg.ResizeDebounce, func() {
		m.timer = 0
		m.Remeasure()
	})
}

// Remeasure measures now and notifies on change. Unready children leave the
// previous layout in place.
func (m *Measurer) Remeasure() {
	l, ok := m.Measure()
	if !ok {
		if !m.last.Valid() {
			m.last = m.Fallback()
		}
		m.sink.Emit("measure_deferred")
		return
	}
	if l == m.last {
		return
	}
	m.last = l
	m.sink.Emit("layout", "card", l.CardWidth, "gap", l.Gap, "stride", l.Stride())
	if m.onChange != nil {
		m.onChange(l)
	}
}

// Stop cancels a pending debounced measurement.
func (m *Measurer) Stop() {
	if m.timer != 0 {
		m.sched.CancelTimer(m.timer)
		m.timer = 0
	}
}
