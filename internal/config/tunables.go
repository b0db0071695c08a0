package config

import (
	"time"

	"github.com/andyrewlee/carousel/internal/effects"
	"github.com/andyrewlee/carousel/internal/geometry"
	"github.com/andyrewlee/carousel/internal/navigation"
	"github.com/andyrewlee/carousel/internal/physics"
	"github.com/andyrewlee/carousel/internal/teleport"
)

// Tunables groups the empirically tuned engine constants. Zero values take
// defaults in Normalize. Durations are milliseconds.
type Tunables struct {
	MinBuffer     int     `json:"min_buffer,omitempty"`
	PixelsPerCell float64 `json:"pixels_per_cell,omitempty"`

	SnapTolerance      float64 `json:"snap_tolerance,omitempty"`
	SafetyMarginPx     float64 `json:"safety_margin_px,omitempty"`
	PreTeleportGuardMs int     `json:"pre_teleport_guard_ms,omitempty"`

	IdleDebounceMs   int `json:"idle_debounce_ms,omitempty"`
	SafetyTimeoutMs  int `json:"safety_timeout_ms,omitempty"`
	ResizeDebounceMs int `json:"resize_debounce_ms,omitempty"`
	SaveDebounceMs   int `json:"save_debounce_ms,omitempty"`

	EagerPointer float64 `json:"eager_pointer,omitempty"`
	EagerTouch   float64 `json:"eager_touch,omitempty"`
	// EndThresholdPx of zero means one client width.
	EndThresholdPx float64 `json:"end_threshold_px,omitempty"`
	EndCooldownMs  int     `json:"end_cooldown_ms,omitempty"`

	DragThresholdPx    float64 `json:"drag_threshold_px,omitempty"`
	VelocityAlpha      float64 `json:"velocity_alpha,omitempty"`
	MaxVelocity        float64 `json:"max_velocity,omitempty"`
	Friction           float64 `json:"friction,omitempty"`
	SnapThreshold      float64 `json:"snap_threshold,omitempty"`
	SnapDurationMs     int     `json:"snap_duration_ms,omitempty"`
	SnapBackDurationMs int     `json:"snap_back_duration_ms,omitempty"`
	MaxPullPx          float64 `json:"max_pull_px,omitempty"`
	BounceDistancePx   float64 `json:"bounce_distance_px,omitempty"`
	BounceOutMs        int     `json:"bounce_out_ms,omitempty"`
	BounceBackMs       int     `json:"bounce_back_ms,omitempty"`

	ViewBufferPx      float64 `json:"view_buffer_px,omitempty"`
	CullSlack         int     `json:"cull_slack,omitempty"`
	CenterThresholdPx float64 `json:"center_threshold_px,omitempty"`
}

// DefaultTunables returns the stock tuning.
func DefaultTunables() Tunables {
	return Tunables{
		MinBuffer:          geometry.DefaultMinBuffer,
		PixelsPerCell:      8,
		SnapTolerance:      0.05,
		SafetyMarginPx:     500,
		PreTeleportGuardMs: 100,
		IdleDebounceMs:     150,
		SafetyTimeoutMs:    2000,
		ResizeDebounceMs:   150,
		SaveDebounceMs:     300,
		EagerPointer:       0.3,
		EagerTouch:         0.15,
		EndCooldownMs:      1000,
		DragThresholdPx:    10,
		VelocityAlpha:      0.3,
		MaxVelocity:        60,
		Friction:           0.95,
		SnapThreshold:      0.5,
		SnapDurationMs:     200,
		SnapBackDurationMs: 250,
		MaxPullPx:          120,
		BounceDistancePx:   30,
		BounceOutMs:        150,
		BounceBackMs:       450,
		ViewBufferPx:       effects.DefaultViewBuffer,
		CullSlack:          effects.DefaultCullSlack,
		CenterThresholdPx:  effects.DefaultCenterThreshold,
	}
}

// Normalize replaces zero or negative fields with defaults.
func (t Tunables) Normalize() Tunables {
	d := DefaultTunables()
	posInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	posFloat := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	posInt(&t.MinBuffer, d.MinBuffer)
	posFloat(&t.PixelsPerCell, d.PixelsPerCell)
	posFloat(&t.SnapTolerance, d.SnapTolerance)
	posFloat(&t.SafetyMarginPx, d.SafetyMarginPx)
	posInt(&t.PreTeleportGuardMs, d.PreTeleportGuardMs)
	posInt(&t.IdleDebounceMs, d.IdleDebounceMs)
	posInt(&t.SafetyTimeoutMs, d.SafetyTimeoutMs)
	posInt(&t.ResizeDebounceMs, d.ResizeDebounceMs)
	posInt(&t.SaveDebounceMs, d.SaveDebounceMs)
	posFloat(&t.EagerPointer, d.EagerPointer)
	posFloat(&t.EagerTouch, d.EagerTouch)
	if t.EndThresholdPx < 0 {
		t.EndThresholdPx = 0
	}
	posInt(&t.EndCooldownMs, d.EndCooldownMs)
	posFloat(&t.DragThresholdPx, d.DragThresholdPx)
	posFloat(&t.VelocityAlpha, d.VelocityAlpha)
	posFloat(&t.MaxVelocity, d.MaxVelocity)
	posFloat(&t.Friction, d.Friction)
	posFloat(&t.SnapThreshold, d.SnapThreshold)
	posInt(&t.SnapDurationMs, d.SnapDurationMs)
	posInt(&t.SnapBackDurationMs, d.SnapBackDurationMs)
	posFloat(&t.MaxPullPx, d.MaxPullPx)
	posFloat(&t.BounceDistancePx, d.BounceDistancePx)
	posInt(&t.BounceOutMs, d.BounceOutMs)
	posInt(&t.BounceBackMs, d.BounceBackMs)
	posFloat(&t.ViewBufferPx, d.ViewBufferPx)
	posInt(&t.CullSlack, d.CullSlack)
	posFloat(&t.CenterThresholdPx, d.CenterThresholdPx)
	return t
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// Teleport returns the teleport engine thresholds.
func (t Tunables) Teleport() teleport.Config {
	return teleport.Config{
		SnapTolerance: t.SnapTolerance,
		SafetyMargin:  t.SafetyMarginPx,
		GuardDelay:    ms(t.PreTeleportGuardMs),
	}
}

// Navigation returns the completion watcher timings.
func (t Tunables) Navigation() navigation.Config {
	return navigation.Config{
		IdleDebounce:  ms(t.IdleDebounceMs),
		SafetyTimeout: ms(t.SafetyTimeoutMs),
	}
}

// Physics returns the drag and bounce tuning.
func (t Tunables) Physics() physics.Config {
	return physics.Config{
		DragThreshold:    t.DragThresholdPx,
		Alpha:            t.VelocityAlpha,
		MaxVelocity:      t.MaxVelocity,
		Friction:         t.Friction,
		SnapThreshold:    t.SnapThreshold,
		SnapDuration:     ms(t.SnapDurationMs),
		SnapBackDuration: ms(t.SnapBackDurationMs),
		MaxPull:          t.MaxPullPx,
		BounceDistance:   t.BounceDistancePx,
		BounceOut:        ms(t.BounceOutMs),
		BounceBack:       ms(t.BounceBackMs),
	}
}

// Effects returns the culling and opacity tuning.
func (t Tunables) Effects() effects.Config {
	return effects.Config{
		ViewBuffer:      t.ViewBufferPx,
		CullSlack:       t.CullSlack,
		CenterThreshold: t.CenterThresholdPx,
	}
}

// ResizeDebounce returns the measurer debounce.
func (t Tunables) ResizeDebounce() time.Duration { return ms(t.ResizeDebounceMs) }

// SaveDebounce returns the persistence debounce.
func (t Tunables) SaveDebounce() time.Duration { return ms(t.SaveDebounceMs) }

// EndCooldown returns the end-reached rate limit.
func (t Tunables) EndCooldown() time.Duration { return ms(t.EndCooldownMs) }
