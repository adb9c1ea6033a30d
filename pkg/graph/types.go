package graph

import (
	"github.com/tavalabs/tava/pkg/ringgraph"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// Formats lists every output format in a stable order.
var Formats = []string{FormatJSON, FormatSVG, FormatDOT, FormatPNG}

// Ring names as they appear on the wire.
var (
	RingCenter = ringgraph.RingCenter.String()
	RingFirst  = ringgraph.RingFirst.String()
	RingSecond = ringgraph.RingSecond.String()
	RingThird  = ringgraph.RingThird.String()
)

// =============================================================================
// Graph - Connection Graph Serialization
// =============================================================================

// Graph is the node-link form of the raw connection data: one node per
// roster member and one directed edge per like.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a roster member in a connection graph.
type Node struct {
	ID        string   `json:"id" bson:"id"`
	Label     string   `json:"label,omitempty" bson:"label,omitempty"` // Display name (defaults to ID)
	Email     string   `json:"email,omitempty" bson:"email,omitempty"`
	Title     string   `json:"title,omitempty" bson:"title,omitempty"`
	Interests []string `json:"interests,omitempty" bson:"interests,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed like.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// =============================================================================
// Layout - Ring Layout Serialization
// =============================================================================

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Layout is the wire form of a ring layout resolved against an interaction
// state. It is what the CLI writes, the server returns and the renderers
// consume.
type Layout struct {
	Focal    string     `json:"focal" bson:"focal"`
	Size     float64    `json:"size" bson:"size"`
	Center   Point      `json:"center" bson:"center"`
	Scale    float64    `json:"scale" bson:"scale"`
	Radii    [4]float64 `json:"radii" bson:"radii"`
	Selected string     `json:"selected,omitempty" bson:"selected,omitempty"`
	Version  uint64     `json:"version,omitempty" bson:"version,omitempty"`

	Nodes      []LayoutNode `json:"nodes" bson:"nodes"`
	Edges      []LayoutEdge `json:"edges,omitempty" bson:"edges,omitempty"`
	Connectors []Segment    `json:"connectors,omitempty" bson:"connectors,omitempty"`
	Stats      Stats        `json:"stats" bson:"stats"`
}

// LayoutNode is a placed node. X and Y are the displayed top-left corner;
// Home is where the layout put it.
type LayoutNode struct {
	ID       string  `json:"id" bson:"id"`
	Label    string  `json:"label" bson:"label"` // one-letter badge
	Name     string  `json:"name,omitempty" bson:"name,omitempty"`
	Ring     string  `json:"ring" bson:"ring"`
	Index    int     `json:"index" bson:"index"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Home     Point   `json:"home" bson:"home"`
	Diameter float64 `json:"diameter" bson:"diameter"`
	State    string  `json:"state,omitempty" bson:"state,omitempty"` // "dragging" or "pinned"
	Selected bool    `json:"selected,omitempty" bson:"selected,omitempty"`
}

// Center returns the displayed midpoint of the node.
func (n LayoutNode) Center() Point {
	return Point{X: n.X + n.Diameter/2, Y: n.Y + n.Diameter/2}
}

// LayoutEdge is an edge resolved to a drawable segment.
type LayoutEdge struct {
	From        string  `json:"from" bson:"from"`
	To          string  `json:"to" bson:"to"`
	Depth       int     `json:"depth" bson:"depth"`
	Category    string  `json:"category" bson:"category"`
	Opacity     float64 `json:"opacity" bson:"opacity"`
	Highlighted bool    `json:"highlighted,omitempty" bson:"highlighted,omitempty"`
	Segment     Segment `json:"segment" bson:"segment"`
}

// Segment is a straight line between two canvas points.
type Segment struct {
	From Point `json:"from" bson:"from"`
	To   Point `json:"to" bson:"to"`
}

// Stats counts ring membership.
type Stats struct {
	Direct   int `json:"direct" bson:"direct"`
	Extended int `json:"extended" bson:"extended"`
	Overflow int `json:"overflow" bson:"overflow"`
}

// Node returns the node with id.
func (l *Layout) Node(id string) (LayoutNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return LayoutNode{}, false
}
