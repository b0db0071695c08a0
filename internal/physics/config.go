// Package physics implements pointer dragging, momentum, edge rubber-banding,
// snap-to-item and the finite-edge bounce.
package physics

import "time"

// Frame is the reference frame duration velocities are expressed in.
const Frame = 16 * time.Millisecond

// Config holds the tuned physics constants. Zero fields take defaults.
type Config struct {
	// DragThreshold is the pointer travel in px below which a press stays a click.
	DragThreshold float64
	// Alpha is the exponential smoothing factor for velocity.
	Alpha float64
	// MaxVelocity caps the release velocity in px per frame.
	MaxVelocity float64
	// Friction is the per-frame velocity decay of momentum.
	Friction float64
	// SnapThreshold is the speed in px per frame below which momentum snaps.
	SnapThreshold    float64
	SnapDuration     time.Duration
	SnapBackDuration time.Duration
	// MaxPull caps the rubber band translation.
	MaxPull float64

	BounceDistance float64
	BounceOut      time.Duration
	BounceBack     time.Duration
	// SpringFrequency and SpringDamping drive the bounce spring-back.
	SpringFrequency float64
	SpringDamping   float64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		DragThreshold:    10,
		Alpha:            0.3,
		MaxVelocity:      60,
		Friction:         0.95,
		SnapThreshold:    0.5,
		SnapDuration:     200 * time.Millisecond,
		SnapBackDuration: 250 * time.Millisecond,
		MaxPull:          120,
		BounceDistance:   30,
		BounceOut:        150 * time.Millisecond,
		BounceBack:       450 * time.Millisecond,
		SpringFrequency:  9,
		SpringDamping:    0.8,
	}
}

// Normalize fills zero or out-of-range fields with defaults.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.DragThreshold <= 0 {
		c.DragThreshold = d.DragThreshold
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		c.Alpha = d.Alpha
	}
	if c.MaxVelocity <= 0 {
		c.MaxVelocity = d.MaxVelocity
	}
	if c.Friction <= 0 || c.Friction >= 1 {
		c.Friction = d.Friction
	}
	if c.SnapThreshold <= 0 {
		c.SnapThreshold = d.SnapThreshold
	}
	if c.SnapDuration <= 0 {
		c.SnapDuration = d.SnapDuration
	}
	if c.SnapBackDuration <= 0 {
		c.SnapBackDuration = d.SnapBackDuration
	}
	if c.MaxPull <= 0 {
		c.MaxPull = d.MaxPull
	}
	if c.BounceDistance <= 0 {
		c.BounceDistance = d.BounceDistance
	}
	if c.BounceOut <= 0 {
		c.BounceOut = d.BounceOut
	}
	if c.BounceBack <= 0 {
		c.BounceBack = d.BounceBack
	}
	if c.SpringFrequency <= 0 {
		c.SpringFrequency = d.SpringFrequency
	}
	if c.SpringDamping <= 0 {
		c.SpringDamping = d.SpringDamping
	}
	return c
}

// frames converts an elapsed duration to a frame ratio, treating non-positive
// spans as one frame.
func frames(d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return float64(d) / float64(Frame)
}
