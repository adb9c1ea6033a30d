package ringgraph

import (
	"fmt"
	"time"
)

// Params holds every tunable of the layout and interaction engine.
// Zero values are not meaningful; start from [DefaultParams].
type Params struct {
	// Ring geometry
	MinArcGap    float64 `toml:"min_arc_gap" json:"min_arc_gap"`
	RingPadding  float64 `toml:"ring_padding" json:"ring_padding"`
	BaseRadius   float64 `toml:"base_radius" json:"base_radius"`
	MaxSize      float64 `toml:"max_size" json:"max_size"`
	CanvasMargin float64 `toml:"canvas_margin" json:"canvas_margin"`

	// Node diameters indexed by Ring (center, first, second, third).
	Diameters [4]float64 `toml:"diameters" json:"diameters"`

	// Viewport fitting
	WidthInset     float64 `toml:"width_inset" json:"width_inset"`
	HeightFraction float64 `toml:"height_fraction" json:"height_fraction"`
	HeightReserve  float64 `toml:"height_reserve" json:"height_reserve"`
	MinHeight      float64 `toml:"min_height" json:"min_height"`

	// Jitter and separation
	AngleJitter      float64 `toml:"angle_jitter" json:"angle_jitter"`   // radians, each direction
	RadialJitter     float64 `toml:"radial_jitter" json:"radial_jitter"` // fraction of ring radius
	SeparationMargin float64 `toml:"separation_margin" json:"separation_margin"`

	// Interaction
	DragThreshold   float64       `toml:"drag_threshold" json:"drag_threshold"`
	NudgeScale      float64       `toml:"nudge_scale" json:"nudge_scale"`
	NudgeLimit      float64       `toml:"nudge_limit" json:"nudge_limit"`
	ReleaseDuration time.Duration `toml:"release_duration" json:"release_duration"`
	ResetDuration   time.Duration `toml:"reset_duration" json:"reset_duration"`

	// Edge styling indexed by depth.
	EdgeBase       [3]float64 `toml:"edge_base" json:"edge_base"`
	DimFactor      float64    `toml:"dim_factor" json:"dim_factor"`
	HighlightBoost float64    `toml:"highlight_boost" json:"highlight_boost"`
}

// DefaultParams returns the tuning used by the mobile graph view.
func DefaultParams() Params {
	return Params{
		MinArcGap:    20,
		RingPadding:  110,
		BaseRadius:   140,
		MaxSize:      520,
		CanvasMargin: 8,

		Diameters: [4]float64{32, 26, 22, 22},

		WidthInset:     32,
		HeightFraction: 0.6,
		HeightReserve:  80,
		MinHeight:      200,

		AngleJitter:      0.09,
		RadialJitter:     0.06,
		SeparationMargin: 6,

		DragThreshold:   6,
		NudgeScale:      0.12,
		NudgeLimit:      40,
		ReleaseDuration: 140 * time.Millisecond,
		ResetDuration:   180 * time.Millisecond,

		EdgeBase:       [3]float64{0.72, 0.52, 0.34},
		DimFactor:      0.28,
		HighlightBoost: 0.22,
	}
}

// Diameter returns the node diameter for ring r.
func (p Params) Diameter(r Ring) float64 {
	if r < RingCenter || r > RingThird {
		return p.Diameters[RingThird]
	}
	return p.Diameters[r]
}

// Validate reports the first parameter that would make the geometry degenerate.
func (p Params) Validate() error {
	switch {
	case p.MinArcGap <= 0:
		return fmt.Errorf("min_arc_gap must be positive, got %v", p.MinArcGap)
	case p.BaseRadius <= 0:
		return fmt.Errorf("base_radius must be positive, got %v", p.BaseRadius)
	case p.RingPadding < 0:
		return fmt.Errorf("ring_padding must not be negative, got %v", p.RingPadding)
	case p.MaxSize <= 0:
		return fmt.Errorf("max_size must be positive, got %v", p.MaxSize)
	case p.DragThreshold < 0:
		return fmt.Errorf("drag_threshold must not be negative, got %v", p.DragThreshold)
	case p.DimFactor <= 0 || p.DimFactor > 1:
		return fmt.Errorf("dim_factor must be in (0, 1], got %v", p.DimFactor)
	}
	for i, d := range p.Diameters {
		if d <= 0 {
			return fmt.Errorf("diameters[%d] must be positive, got %v", i, d)
		}
	}
	return nil
}
