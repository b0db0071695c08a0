package physics

import (
	"math"

	"github.com/andyrewlee/carousel/internal/viewport"
)

// RubberBand maps an edge overshoot to the damped visual translation.
// Pulling past the end translates content left (negative) and vice versa.
func RubberBand(pull, maxPull float64) float64 {
	if pull == 0 || maxPull <= 0 {
		return 0
	}
	d := math.Min(math.Sqrt(math.Abs(pull)/maxPull)*maxPull, maxPull)
	if pull > 0 {
		return -d
	}
	return d
}

// NearestAnchor returns the offset that centers the rendered child closest to
// the container center. A non-zero direction only considers children ahead in
// that direction unless none qualify.
func NearestAnchor(r viewport.ItemRenderer, offset, clientWidth float64, direction int) (float64, bool) {
	if r == nil {
		return 0, false
	}
	center := offset + clientWidth/2
	best, bestAhead := -1.0, -1.0
	var target, targetAhead float64
	for i, n := 0, r.RenderedCount(); i < n; i++ {
		rect, ok := r.ItemGeometry(i)
		if !ok {
			continue
		}
		d := rect.Center() - center
		dist := math.Abs(d)
		if best < 0 || dist < best {
			best, target = dist, rect.Center()-clientWidth/2
		}
		if direction != 0 && (d == 0 || (d > 0) == (direction > 0)) {
			if bestAhead < 0 || dist < bestAhead {
				bestAhead, targetAhead = dist, rect.Center()-clientWidth/2
			}
		}
	}
	if bestAhead >= 0 {
		return targetAhead, true
	}
	return target, best >= 0
}
