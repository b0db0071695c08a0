package geometry

import "math"

// StrideEpsilon is the tolerance below which measured and computed strides
// are considered equal.
const StrideEpsilon = 1.0

// Layout is the measured size of one item slot.
type Layout struct {
	CardWidth float64
	Gap       float64
	// DOMStride is the measured distance between consecutive item anchors.
	DOMStride float64
}

// Stride returns the authoritative item pitch. The measured stride wins when it
// disagrees with CardWidth+Gap beyond StrideEpsilon.
func (l Layout) Stride() float64 {
	computed := l.CardWidth + l.Gap
	if l.DOMStride > 0 && (computed <= 0 || math.Abs(l.DOMStride-computed) > StrideEpsilon) {
		return l.DOMStride
	}
	if computed < 0 {
		return 0
	}
	return computed
}

// Valid reports whether the layout can drive selection and teleporting.
func (l Layout) Valid() bool {
	return l.Stride() > 0
}
