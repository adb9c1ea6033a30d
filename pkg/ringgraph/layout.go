package ringgraph

import "math"

// Layout is one immutable layout pass: ring partition, canvas geometry,
// node home positions and the derived edges.
type Layout struct {
	Focal     string
	Partition Partition
	Geometry  Geometry
	Params    Params

	// Nodes lists the focal node first, followed by ring 1, 2 and 3 in
	// partition order.
	Nodes []Node
	Edges []Edge
	Stats Stats

	index map[string]int
}

// Compute runs a full layout pass for focal over src.
// A nil or empty source yields a layout holding only the focal node.
func Compute(focal string, src Source, vp Viewport, p Params) *Layout {
	pt := PartitionRings(focal, src, p)
	geo := Measure(pt, vp, p)

	l := &Layout{
		Focal:     focal,
		Partition: pt,
		Geometry:  geo,
		Params:    p,
		Stats: Stats{
			Direct:   len(pt.Ring1),
			Extended: len(pt.Ring2) + len(pt.Ring3),
			Overflow: len(pt.Ring3),
		},
		index: make(map[string]int, pt.Len()+1),
	}

	cd := p.Diameter(RingCenter)
	l.add(Node{
		ID:       focal,
		Ring:     RingCenter,
		Home:     geo.Center.Add(-cd/2, -cd/2),
		Diameter: cd,
	})

	for _, r := range []Ring{RingFirst, RingSecond, RingThird} {
		ids := pt.Members(r)
		radius := geo.Radius(r)
		diam := p.Diameter(r)

		placed := placeRing(ids, radius, p)
		angles := make([]float64, len(placed))
		for i, pl := range placed {
			angles[i] = pl.angle
		}
		angles = Separate(angles, radius, diam, p.SeparationMargin)

		for i, id := range ids {
			rad := placed[i].radius
			c := Point{
				X: geo.Center.X + rad*math.Cos(angles[i]),
				Y: geo.Center.Y + rad*math.Sin(angles[i]),
			}
			l.add(Node{
				ID:       id,
				Ring:     r,
				Index:    i,
				Home:     c.Add(-diam/2, -diam/2),
				Diameter: diam,
				Angle:    angles[i],
				Radius:   rad,
			})
		}
	}

	if src != nil {
		l.Edges = DeriveEdges(pt, src)
	}
	return l
}

func (l *Layout) add(n Node) {
	if _, dup := l.index[n.ID]; dup {
		return
	}
	l.index[n.ID] = len(l.Nodes)
	l.Nodes = append(l.Nodes, n)
}

// Node returns the placed node for id.
func (l *Layout) Node(id string) (Node, bool) {
	if l == nil {
		return Node{}, false
	}
	i, ok := l.index[id]
	if !ok {
		return Node{}, false
	}
	return l.Nodes[i], true
}

// Has reports whether id is part of the layout.
func (l *Layout) Has(id string) bool {
	_, ok := l.Node(id)
	return ok
}

// Size returns the canvas edge length.
func (l *Layout) Size() float64 { return l.Geometry.Size }

// Clamp keeps a node's top-left corner inside the canvas for the given diameter.
func (l *Layout) Clamp(pos Point, diameter float64) Point {
	maxXY := math.Max(0, l.Geometry.Size-diameter)
	return Point{X: clamp(pos.X, 0, maxXY), Y: clamp(pos.Y, 0, maxXY)}
}

// Ring returns the nodes of ring r in placement order.
func (l *Layout) Ring(r Ring) []Node {
	var out []Node
	for _, n := range l.Nodes {
		if n.Ring == r {
			out = append(out, n)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
