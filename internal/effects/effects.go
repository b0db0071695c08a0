// Package effects computes distance-based scale and opacity for rendered items.
package effects

import (
	"math"

	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/perf"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// Defaults for Config.
const (
	DefaultViewBuffer      = 200.0
	DefaultCullSlack       = 4
	DefaultCenterThreshold = 10.0
)

// Config tunes culling and the center snap of opacity.
type Config struct {
	ViewBuffer      float64
	CullSlack       int
	CenterThreshold float64
}

func (c Config) normalized() Config {
	if c.ViewBuffer <= 0 {
		c.ViewBuffer = DefaultViewBuffer
	}
	if c.CullSlack <= 0 {
		c.CullSlack = DefaultCullSlack
	}
	if c.CenterThreshold <= 0 {
		c.CenterThreshold = DefaultCenterThreshold
	}
	return c
}

// Compute returns the style for an item distance pixels from the container center.
func Compute(distance float64, tier Tier, centerThreshold float64) viewport.Style {
	distance = math.Abs(distance)
	normalized := 1.0
	if tier.MaxDistance > 0 {
		normalized = math.Min(distance/tier.MaxDistance, 1)
	}
	proximity := 1 - normalized
	u := 1 - proximity
	e := 1 - u*u*u

	opacity := 0.5 + 0.5*e
	if distance < centerThreshold {
		opacity = 1
	}
	return viewport.Style{
		Scale:   tier.BaseScale + (1-tier.BaseScale)*e,
		Opacity: opacity,
		ZIndex:  int(math.Round(e * 100)),
	}
}

// Engine applies styles to the visible window of rendered items.
type Engine struct {
	cfg      Config
	vp       viewport.Viewport
	renderer viewport.ItemRenderer
	sink     logging.Scoped

	geom       []viewport.Rect
	geomValid  bool
	width      float64
	widthValid bool
	tierWidth  float64

	first, last int
}

// New creates an engine. The tier follows the container width until
// SetViewportWidth is called.
func New(vp viewport.Viewport, renderer viewport.ItemRenderer, cfg Config, sink logging.Sink) *Engine {
	return &Engine{
		cfg:      cfg.normalized(),
		vp:       vp,
		renderer: renderer,
		sink:     logging.NewScoped(sink, "effects"),
		first:    -1,
		last:     -1,
	}
}

// SetConfig replaces the tuning.
func (e *Engine) SetConfig(cfg Config) { e.cfg = cfg.normalized() }

// InvalidateGeometry drops cached item geometry.
func (e *Engine) InvalidateGeometry() { e.geomValid = false }

// InvalidateContainer drops the cached container width.
func (e *Engine) InvalidateContainer() { e.widthValid = false }

// SetViewportWidth sets the width used for tier selection. Zero follows the container.
func (e *Engine) SetViewportWidth(w float64) { e.tierWidth = w }

// Tier returns the tier in effect.
func (e *Engine) Tier() Tier {
	w := e.tierWidth
	if w <= 0 {
		w = e.containerWidth()
	}
	return TierFor(w)
}

// LastRange returns the culled index range of the last Apply, or -1,-1.
func (e *Engine) LastRange() (first, last int) { return e.first, e.last }

func (e *Engine) containerWidth() float64 {
	if !e.widthValid && e.vp != nil {
		e.width = e.vp.ClientWidth()
		e.widthValid = true
	}
	return e.width
}

func (e *Engine) ensureGeometry() bool {
	if e.geomValid {
		return len(e.geom) > 0
	}
	n := e.renderer.RenderedCount()
	geom := make([]viewport.Rect, 0, n)
	for i := 0; i < n; i++ {
		r, ok := e.renderer.ItemGeometry(i)
		if !ok {
			return false
		}
		geom = append(geom, r)
	}
	e.geom = geom
	e.geomValid = true
	return len(geom) > 0
}

func (e *Engine) stride() float64 {
	n := len(e.geom)
	if n < 2 {
		if n == 1 {
			return e.geom[0].Width
		}
		return 0
	}
	return (e.geom[n-1].Left - e.geom[0].Left) / float64(n-1)
}

// Apply styles every candidate overlapping the view window at offset and
// returns how many items were touched. Items outside the window are left as is.
func (e *Engine) Apply(offset float64) int {
	if e.renderer == nil || e.vp == nil {
		return 0
	}
	defer perf.Time("effects_apply")()
	if !e.ensureGeometry() {
		e.sink.Emit("geometry_unready")
		return 0
	}
	width := e.containerWidth()
	stride := e.stride()
	if stride <= 0 || width <= 0 {
		return 0
	}

	lo := offset - e.cfg.ViewBuffer
	hi := offset + width + e.cfg.ViewBuffer
	origin := e.geom[0].Left
	n := len(e.geom)
	first := int(math.Floor((lo-origin)/stride)) - e.cfg.CullSlack
	last := int(math.Ceil((hi-origin)/stride)) + e.cfg.CullSlack
	if first < 0 {
		first = 0
	}
	if last > n-1 {
		last = n - 1
	}
	e.first, e.last = first, last
	if first > last {
		return 0
	}

	tier := e.Tier()
	center := offset + width/2
	applied := 0
	for i := first; i <= last; i++ {
		r := e.geom[i]
		if r.Right() < lo || r.Left > hi {
			continue
		}
		e.renderer.ApplyStyle(i, Compute(center-r.Center(), tier, e.cfg.CenterThreshold))
		applied++
	}
	perf.Count("effects_items", int64(applied))
	return applied
}
