package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tavalabs/tava/pkg/ringgraph"
)

// =============================================================================
// Layout Conversion
// =============================================================================

// FromLayout resolves l against the interaction state ix and the entity
// metadata in dir. A nil ix means "nothing selected, nothing moved"; a nil
// dir leaves names empty and derives badges from the fallback letters.
func FromLayout(l *ringgraph.Layout, ix *ringgraph.Interaction, dir ringgraph.Directory) Layout {
	if ix == nil {
		ix = ringgraph.NewInteraction(l)
	}
	geo := l.Geometry
	out := Layout{
		Focal:    l.Focal,
		Size:     geo.Size,
		Center:   point(geo.Center),
		Scale:    geo.Scale,
		Radii:    geo.Radii,
		Selected: ix.Selected(),
		Version:  ix.Version(),
		Nodes:    make([]LayoutNode, 0, len(l.Nodes)),
		Stats: Stats{
			Direct:   l.Stats.Direct,
			Extended: l.Stats.Extended,
			Overflow: l.Stats.Overflow,
		},
	}

	for _, n := range l.Nodes {
		var e ringgraph.Entity
		if dir != nil {
			e, _ = dir.Entity(n.ID)
		}
		pos := ix.Position(n.ID)
		ln := LayoutNode{
			ID:       n.ID,
			Label:    ringgraph.Label(e, n.Ring),
			Name:     e.DisplayName,
			Ring:     n.Ring.String(),
			Index:    n.Index,
			X:        pos.X,
			Y:        pos.Y,
			Home:     point(n.Home),
			Diameter: n.Diameter,
			Selected: n.ID == out.Selected,
		}
		if s := ix.State(n.ID); s != ringgraph.StateHome {
			ln.State = s.String()
		}
		out.Nodes = append(out.Nodes, ln)
	}

	for _, g := range ix.EdgeGeometry() {
		out.Edges = append(out.Edges, LayoutEdge{
			From:        g.A,
			To:          g.B,
			Depth:       g.Depth,
			Category:    g.Category.String(),
			Opacity:     g.Opacity,
			Highlighted: g.Highlighted,
			Segment:     segment(g.Segment),
		})
	}
	for _, s := range ix.Connectors() {
		out.Connectors = append(out.Connectors, segment(s))
	}
	return out
}

func point(p ringgraph.Point) Point { return Point{X: p.X, Y: p.Y} }

func segment(s ringgraph.Segment) Segment {
	return Segment{From: point(s.From), To: point(s.To)}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// The focal node must come first and every edge must join known nodes.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the structural invariants of a decoded layout.
func (l *Layout) Validate() error {
	if l.Size <= 0 {
		return fmt.Errorf("layout size must be positive, got %v", l.Size)
	}
	if len(l.Nodes) == 0 {
		return fmt.Errorf("layout must contain the focal node")
	}
	if first := l.Nodes[0]; first.ID != l.Focal || first.Ring != RingCenter {
		return fmt.Errorf("first node must be focal %q on the center ring, got %q (%s)", l.Focal, first.ID, first.Ring)
	}
	seen := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if seen[n.ID] {
			return fmt.Errorf("duplicate node %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range l.Edges {
		if !seen[e.From] || !seen[e.To] {
			return fmt.Errorf("edge %s-%s references a missing node", e.From, e.To)
		}
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
