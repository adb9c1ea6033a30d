package ringgraph

import "math"

// EdgeCategory says which rings an edge connects.
type EdgeCategory int

const (
	CategoryCenterFirst   EdgeCategory = iota // focal ↔ ring 1
	CategoryFirstInternal                     // ring 1 ↔ ring 1
	CategoryFirstSecond                       // ring 1 ↔ ring 2
	CategoryOuterThird                        // ring 1 or 2 ↔ ring 3
)

// String returns the category name used in serialized layouts.
func (c EdgeCategory) String() string {
	switch c {
	case CategoryCenterFirst:
		return "center-first"
	case CategoryFirstInternal:
		return "first-internal"
	case CategoryFirstSecond:
		return "first-second"
	case CategoryOuterThird:
		return "outer-third"
	default:
		return "unknown"
	}
}

// Depth maps a category to its rendering weight class:
// 0 heaviest, 1 medium, 2 lightest.
func (c EdgeCategory) Depth() int {
	switch c {
	case CategoryCenterFirst:
		return 0
	case CategoryFirstInternal, CategoryFirstSecond:
		return 1
	default:
		return 2
	}
}

// Edge is an undirected connection between two placed nodes. A is the
// endpoint closer to the center.
type Edge struct {
	A, B     string
	Depth    int
	Category EdgeCategory
}

// Key returns the order-independent identity of the edge.
func (e Edge) Key() string { return pairKey(e.A, e.B) }

// Touches reports whether id is an endpoint.
func (e Edge) Touches(id string) bool { return id != "" && (e.A == id || e.B == id) }

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

// DeriveEdges returns one edge per connected unordered pair of the partition.
// A like in either direction connects a pair; the direction is discarded.
func DeriveEdges(pt Partition, src Source) []Edge {
	likes := make(map[string]map[string]bool)
	liked := func(id string) map[string]bool {
		if s, ok := likes[id]; ok {
			return s
		}
		s := likedSet(src, id)
		likes[id] = s
		return s
	}
	connected := func(a, b string) bool { return liked(a)[b] || liked(b)[a] }

	var edges []Edge
	used := make(map[string]bool)
	add := func(a, b string, c EdgeCategory) {
		if a == b {
			return
		}
		k := pairKey(a, b)
		if used[k] {
			return
		}
		used[k] = true
		edges = append(edges, Edge{A: a, B: b, Depth: c.Depth(), Category: c})
	}

	for _, f := range pt.Ring1 {
		add(pt.Focal, f, CategoryCenterFirst)
	}
	for i, a := range pt.Ring1 {
		for _, b := range pt.Ring1[i+1:] {
			if connected(a, b) {
				add(a, b, CategoryFirstInternal)
			}
		}
	}
	for _, s := range pt.Ring2 {
		for _, f := range pt.Ring1 {
			if connected(f, s) {
				add(f, s, CategoryFirstSecond)
			}
		}
	}
	parents := make([]string, 0, len(pt.Ring1)+len(pt.Ring2))
	parents = append(parents, pt.Ring1...)
	parents = append(parents, pt.Ring2...)
	for _, t := range pt.Ring3 {
		for _, p := range parents {
			if connected(p, t) {
				add(p, t, CategoryOuterThird)
			}
		}
	}
	return edges
}

// EdgeOpacity is the rendered opacity of e. With nothing selected every edge
// keeps its depth's base opacity. With a selection, edges touching the
// selected node are boosted and all others are dimmed, never hidden.
func (p Params) EdgeOpacity(e Edge, selected string) float64 {
	depth := e.Depth
	if depth < 0 || depth >= len(p.EdgeBase) {
		depth = len(p.EdgeBase) - 1
	}
	base := p.EdgeBase[depth]
	if selected == "" {
		return base
	}
	if e.Touches(selected) {
		return math.Min(1, base+p.HighlightBoost)
	}
	return base * p.DimFactor
}

// Segment is a straight line between two canvas points.
type Segment struct {
	From   Point
	To     Point
	Length float64
	Angle  float64 // radians
}

// NewSegment builds the segment from a to b. It reports false for
// zero-length or non-finite segments, which callers skip.
func NewSegment(a, b Point) (Segment, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return Segment{}, false
	}
	return Segment{From: a, To: b, Length: length, Angle: math.Atan2(dy, dx)}, true
}

// Midpoint returns the middle of the segment.
func (s Segment) Midpoint() Point {
	return Point{X: (s.From.X + s.To.X) / 2, Y: (s.From.Y + s.To.Y) / 2}
}

// EdgeGeometry is an edge resolved against current node positions.
type EdgeGeometry struct {
	Edge
	Segment
	Opacity     float64
	Highlighted bool
}
