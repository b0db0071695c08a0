package geometry

import "math"

// DefaultMinBuffer is the minimum number of items rendered on each side of the
// real set in an infinite list.
const DefaultMinBuffer = 50

// Repetitions returns how many copies of an n-item set are needed on each side
// to reach minBuffer items.
func Repetitions(n, minBuffer int) int {
	if n <= 0 {
		return 0
	}
	if minBuffer <= 0 {
		return 1
	}
	k := int(math.Ceil(float64(minBuffer) / float64(n)))
	if k < 1 {
		k = 1
	}
	return k
}

// Buffer is the rendered geometry of an infinite list:
// before(k*N) ++ real(N) ++ after(k*N).
type Buffer struct {
	Items       int
	Repetitions int
	Stride      float64
}

// NewBuffer derives the buffer for n real items.
func NewBuffer(n, minBuffer int, stride float64) Buffer {
	return Buffer{Items: n, Repetitions: Repetitions(n, minBuffer), Stride: stride}
}

// Empty reports whether the buffer cannot support teleporting.
func (b Buffer) Empty() bool {
	return b.Items <= 0 || b.Stride <= 0 || b.Repetitions <= 0
}

// RenderedCount is the number of rendered children.
func (b Buffer) RenderedCount() int {
	if b.Items <= 0 {
		return 0
	}
	return 2*b.Repetitions*b.Items + b.Items
}

// RealStart is the rendered index of the first real item.
func (b Buffer) RealStart() int {
	return b.Repetitions * b.Items
}

// BeforeWidth is the width of the leading buffer.
func (b Buffer) BeforeWidth() float64 {
	return float64(b.Repetitions*b.Items) * b.Stride
}

// SetWidth is the width of one copy of the real items.
func (b Buffer) SetWidth() float64 {
	return float64(b.Items) * b.Stride
}

// SafeZone returns [lo, hi): offsets that need no teleport.
func (b Buffer) SafeZone() (lo, hi float64) {
	lo = b.BeforeWidth()
	return lo, lo + b.SetWidth()
}

// InSafeZone reports whether x lies in the safe zone. The lower bound is
// inclusive and the upper bound exclusive.
func (b Buffer) InSafeZone(x float64) bool {
	lo, hi := b.SafeZone()
	return x >= lo && x < hi
}

// LogicalIndex maps a rendered index to its real item index.
func (b Buffer) LogicalIndex(rendered int) int {
	if b.Items <= 0 {
		return 0
	}
	i := rendered % b.Items
	if i < 0 {
		i += b.Items
	}
	return i
}
