package ringgraph

import (
	"cmp"
	"math"
	"slices"
	"unicode/utf16"
)

// hash01 maps s to [0, 1] with a stable multiplicative string hash. It
// folds UTF-16 code units so ids outside ASCII jitter the same way they do
// in the mobile client.
func hash01(s string) float64 {
	var h uint32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*131 + uint32(u)
	}
	return float64(h&0xffffff) / 0xffffff
}

// Jitter returns the angular (radians) and radial (fraction of ring radius)
// perturbation for id. It depends on the id alone.
func Jitter(id string, p Params) (dAngle, dRadius float64) {
	a := hash01(id + ":a")
	b := hash01(id + ":b")
	return (a - 0.5) * 2 * p.AngleJitter, (b - 0.5) * 2 * p.RadialJitter
}

// polar is a node position relative to the canvas center.
type polar struct {
	angle  float64
	radius float64
}

// placeRing spaces ids evenly around a ring starting at the top and applies
// the per-id jitter.
func placeRing(ids []string, radius float64, p Params) []polar {
	n := len(ids)
	if n == 0 {
		return nil
	}
	out := make([]polar, n)
	for i, id := range ids {
		da, dr := Jitter(id, p)
		out[i] = polar{
			angle:  normalizeAngle(-math.Pi/2 + 2*math.Pi*float64(i)/float64(n) + da),
			radius: radius + dr*radius,
		}
	}
	return out
}

// Separate pushes apart neighbouring angles on a ring whose gap is smaller
// than the arc a node of the given diameter (plus margin) needs at
// ringRadius. It makes a single forward pass over the angle-sorted nodes,
// including the pair that wraps around from the last node to the first,
// shifting each violating pair apart by half the deficit. The result keeps
// the input order.
//
// This is a local relaxation. Fixing one pair can tighten the next, and a
// ring that is simply too crowded stays crowded.
func Separate(angles []float64, ringRadius, diameter, margin float64) []float64 {
	out := slices.Clone(angles)
	if len(out) < 2 || ringRadius <= 0 {
		return out
	}

	type item struct {
		i     int
		angle float64
	}
	items := make([]item, len(out))
	for i, a := range out {
		items[i] = item{i: i, angle: normalizeAngle(a)}
	}
	slices.SortStableFunc(items, func(a, b item) int { return cmp.Compare(a.angle, b.angle) })

	minAngle := (diameter + margin) / ringRadius
	last := len(items) - 1
	for k := range items {
		cur := &items[k]
		nxt := &items[(k+1)%len(items)]
		diff := nxt.angle - cur.angle
		if k == last {
			diff = nxt.angle + 2*math.Pi - cur.angle
		}
		if diff < minAngle {
			need := minAngle - diff
			cur.angle -= need / 2
			nxt.angle += need / 2
		}
	}

	for _, it := range items {
		out[it.i] = it.angle
	}
	return out
}

// AngularGaps returns the gaps between angle-adjacent entries, including
// the wrap-around gap. Useful for checking separation.
func AngularGaps(angles []float64) []float64 {
	if len(angles) < 2 {
		return nil
	}
	sorted := make([]float64, len(angles))
	for i, a := range angles {
		sorted[i] = normalizeAngle(a)
	}
	slices.Sort(sorted)
	gaps := make([]float64, len(sorted))
	for i := 0; i < len(sorted)-1; i++ {
		gaps[i] = sorted[i+1] - sorted[i]
	}
	gaps[len(sorted)-1] = sorted[0] + 2*math.Pi - sorted[len(sorted)-1]
	return gaps
}

// normalizeAngle maps a to [-π, π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
