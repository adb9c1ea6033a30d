package ringgraph

import (
	"math"
	"testing"
)

func TestDeriveEdgesExample(t *testing.T) {
	src := edgeExample()
	pt := PartitionRings("E", src, DefaultParams())
	edges := DeriveEdges(pt, src)

	want := map[string]int{
		"A|E": 0,
		"B|E": 0,
		"A|C": 1,
	}
	if len(edges) != len(want) {
		t.Fatalf("len(edges) = %d, want %d: %+v", len(edges), len(want), edges)
	}
	for _, e := range edges {
		depth, ok := want[e.Key()]
		if !ok {
			t.Errorf("unexpected edge %s", e.Key())
			continue
		}
		if e.Depth != depth {
			t.Errorf("edge %s depth = %d, want %d", e.Key(), e.Depth, depth)
		}
	}
}

func TestDeriveEdgesCategories(t *testing.T) {
	p := DefaultParams()
	p.BaseRadius = 7
	p.RingPadding = 10 // ring-2 capacity 5

	ids := []string{"E", "A", "B", "s1", "s2", "s3", "s4", "s5", "t1"}
	src := newLikes(ids, map[string][]string{
		"E":  {"A", "B"},
		"A":  {"s1", "s2", "s3"},
		"B":  {"A", "s4", "s5", "t1"},
		"t1": {"s1"},
	})
	pt := PartitionRings("E", src, p)
	if len(pt.Ring3) != 1 || pt.Ring3[0] != "t1" {
		t.Fatalf("Ring3 = %v, want [t1]", pt.Ring3)
	}

	got := make(map[string]Edge)
	for _, e := range DeriveEdges(pt, src) {
		if _, dup := got[e.Key()]; dup {
			t.Errorf("duplicate edge %s", e.Key())
		}
		got[e.Key()] = e
	}

	tests := []struct {
		key      string
		category EdgeCategory
		depth    int
	}{
		{"A|E", CategoryCenterFirst, 0},
		{"B|E", CategoryCenterFirst, 0},
		{"A|B", CategoryFirstInternal, 1},
		{"A|s1", CategoryFirstSecond, 1},
		{"B|s4", CategoryFirstSecond, 1},
		{"B|t1", CategoryOuterThird, 2},
		{"s1|t1", CategoryOuterThird, 2},
	}
	for _, tt := range tests {
		e, ok := got[tt.key]
		if !ok {
			t.Errorf("missing edge %s", tt.key)
			continue
		}
		if e.Category != tt.category || e.Depth != tt.depth {
			t.Errorf("edge %s = %v/%d, want %v/%d", tt.key, e.Category, e.Depth, tt.category, tt.depth)
		}
	}
	if e := got["A|s1"]; e.A != "A" {
		t.Errorf("edge A|s1 inner endpoint = %q, want A", e.A)
	}
}

func TestDeriveEdgesEitherDirection(t *testing.T) {
	// C likes A, A does not like C: still connected.
	src := newLikes([]string{"E", "A", "B", "C"}, map[string][]string{
		"E": {"A", "B"},
		"B": {"C"},
		"C": {"A"},
	})
	pt := PartitionRings("E", src, DefaultParams())
	found := false
	for _, e := range DeriveEdges(pt, src) {
		if e.Key() == "A|C" {
			found = true
		}
	}
	if !found {
		t.Error("missing A|C edge from a one-way like")
	}
}

func TestEdgeOpacity(t *testing.T) {
	p := DefaultParams()
	ea := Edge{A: "E", B: "A", Depth: 0}
	ac := Edge{A: "A", B: "C", Depth: 1}
	bt := Edge{A: "B", B: "T", Depth: 2}

	tests := []struct {
		name     string
		edge     Edge
		selected string
		want     float64
	}{
		{"NoSelectionDepth0", ea, "", 0.72},
		{"NoSelectionDepth1", ac, "", 0.52},
		{"NoSelectionDepth2", bt, "", 0.34},
		{"TouchingCapped", ea, "A", 0.94},
		{"TouchingDepth1", ac, "A", 0.74},
		{"Dimmed", bt, "A", 0.34 * 0.28},
		{"DimmedDepth0", ea, "C", 0.72 * 0.28},
		{"OutOfRangeDepth", Edge{A: "x", B: "y", Depth: 9}, "", 0.34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.EdgeOpacity(tt.edge, tt.selected)
			if !approx(got, tt.want) {
				t.Errorf("EdgeOpacity = %v, want %v", got, tt.want)
			}
			if got <= 0 || got > 1 {
				t.Errorf("EdgeOpacity = %v, want (0, 1]", got)
			}
		})
	}
}

func TestNewSegment(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		wantOK bool
		length float64
	}{
		{"Horizontal", Point{0, 0}, Point{3, 4}, true, 5},
		{"ZeroLength", Point{1, 1}, Point{1, 1}, false, 0},
		{"NaN", Point{math.NaN(), 0}, Point{1, 1}, false, 0},
		{"Inf", Point{math.Inf(1), 0}, Point{1, 1}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := NewSegment(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !approx(s.Length, tt.length) {
				t.Errorf("Length = %v, want %v", s.Length, tt.length)
			}
		})
	}
	s, _ := NewSegment(Point{0, 0}, Point{4, 2})
	if m := s.Midpoint(); m != (Point{2, 1}) {
		t.Errorf("Midpoint = %v, want (2, 1)", m)
	}
}
