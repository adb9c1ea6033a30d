package ringgraph

import "math"

// Viewport is the space available to the graph canvas.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Geometry is the sized canvas for a partition. Radii are post-scale and
// indexed by Ring; Radii[RingCenter] is always zero.
type Geometry struct {
	Radii  [4]float64
	Scale  float64 // uniform factor applied to the raw radii (≤ 1)
	Size   float64 // square canvas edge
	Center Point
}

// Radius returns the post-scale radius of ring r.
func (g Geometry) Radius(r Ring) float64 {
	if r < RingCenter || r > RingThird {
		return 0
	}
	return g.Radii[r]
}

// Measure sizes the canvas for pt. Radii grow to keep ring 1 free of
// overlap, then shrink uniformly when the resulting canvas would not fit the
// viewport. They never grow to fill a larger viewport.
func Measure(pt Partition, vp Viewport, p Params) Geometry {
	r1 := firstRadius(len(pt.Ring1), p)
	r2 := r1 + p.RingPadding
	r3 := r2 + p.RingPadding
	if len(pt.Ring3) == 0 {
		r3 = r2
	}

	largest := r1
	switch {
	case len(pt.Ring3) > 0:
		largest = r3
	case len(pt.Ring2) > 0:
		largest = r2
	}

	raw := math.Ceil(largest*2 + p.Diameter(RingCenter) + p.CanvasMargin)
	allowed := allowedSize(vp, p)

	scale := 1.0
	if raw > allowed && raw > 0 {
		scale = allowed / raw
		r1 *= scale
		r2 *= scale
		r3 *= scale
	}
	size := math.Ceil(math.Min(raw*scale, allowed))

	return Geometry{
		Radii:  [4]float64{0, r1, r2, r3},
		Scale:  scale,
		Size:   size,
		Center: Point{X: size / 2, Y: size / 2},
	}
}

// allowedSize is the largest canvas edge the viewport admits. A missing
// dimension does not constrain the canvas.
func allowedSize(vp Viewport, p Params) float64 {
	allowed := p.MaxSize
	if vp.Width > 0 {
		allowed = math.Min(allowed, vp.Width-p.WidthInset)
	}
	if vp.Height > 0 {
		byHeight := math.Max(p.MinHeight, math.Floor(vp.Height*p.HeightFraction-p.HeightReserve))
		allowed = math.Min(allowed, byHeight)
	}
	if allowed <= 0 || math.IsNaN(allowed) {
		allowed = math.Max(p.MinHeight, 1)
	}
	return allowed
}
