package ringgraph

import "math"

// Ring identifies the concentric circle a node sits on.
type Ring int

const (
	RingCenter Ring = iota // the focal entity
	RingFirst              // liked by the focal entity
	RingSecond             // liked by ring-1 members
	RingThird              // ring-2 overflow
)

// String returns a short name for the ring.
func (r Ring) String() string {
	switch r {
	case RingCenter:
		return "center"
	case RingFirst:
		return "first"
	case RingSecond:
		return "second"
	case RingThird:
		return "third"
	default:
		return "unknown"
	}
}

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Source is the read-only connection graph the engine lays out.
// Roster returns every known entity in a stable order; LikedIDs returns the
// ids an entity liked. Unknown ids must yield an empty result, not a panic.
type Source interface {
	Roster() []string
	LikedIDs(id string) []string
}

// Entity is the display metadata of a roster member.
type Entity struct {
	ID              string
	DisplayName     string
	Email           string
	IdeaTitle       string
	IdeaDescription string
	Interests       []string
}

// Directory resolves entity metadata by id.
type Directory interface {
	Entity(id string) (Entity, bool)
}

// Node is a placed entity. Home is the top-left corner of the node's
// bounding square; use Center for the visual midpoint.
type Node struct {
	ID       string
	Ring     Ring
	Index    int // position within its ring
	Home     Point
	Diameter float64
	Angle    float64 // radians, after jitter and separation
	Radius   float64 // distance from canvas center, after jitter
}

// Center returns the midpoint of the node at its home position.
func (n Node) Center() Point { return n.Home.Add(n.Diameter/2, n.Diameter/2) }

// Stats counts ring membership the way the graph caption reports it.
type Stats struct {
	Direct   int // ring 1
	Extended int // ring 2 and ring 3 together
	Overflow int // ring 3 only
}
