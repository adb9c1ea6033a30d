package ringgraph

import (
	"math"
	"slices"
	"time"
)

// NodeState is where a node is in the drag/pin/reset cycle.
type NodeState int

const (
	StateHome     NodeState = iota // positioned by the layout
	StateDragging                  // following an active pointer
	StatePinned                    // held at a user-chosen position
)

// String returns the state name.
func (s NodeState) String() string {
	switch s {
	case StateHome:
		return "home"
	case StateDragging:
		return "dragging"
	case StatePinned:
		return "pinned"
	default:
		return "unknown"
	}
}

// gesture tracks one pointer interaction with a node.
type gesture struct {
	origin      Point // displayed position at pointer-down
	dragging    bool  // drag threshold crossed
	wasSelected bool  // node was selected before pointer-down
}

// Interaction is the mutable interaction state layered over a Layout:
// selection, pins, live drag positions and animations.
//
// The displayed position of a node resolves in this order: running
// animation, live drag position, pin, home. Every change increments
// Version and notifies OnChange listeners.
type Interaction struct {
	layout   *Layout
	params   Params
	selected string
	pins     map[string]Point
	live     map[string]Point
	gestures map[string]*gesture
	anim     *Animator

	version   uint64
	listeners map[int]func(uint64)
	nextID    int

	edgeCache   []EdgeGeometry
	edgeVersion uint64
	edgeValid   bool
}

// NewInteraction starts an interaction over l with nothing selected or pinned.
func NewInteraction(l *Layout) *Interaction {
	return &Interaction{
		layout:    l,
		params:    l.Params,
		pins:      make(map[string]Point),
		live:      make(map[string]Point),
		gestures:  make(map[string]*gesture),
		anim:      NewAnimator(),
		listeners: make(map[int]func(uint64)),
	}
}

// Layout returns the layout the interaction currently runs over.
func (ix *Interaction) Layout() *Layout { return ix.layout }

// Version is the invalidation counter. It changes whenever any displayed
// position, the selection or the pin set changes.
func (ix *Interaction) Version() uint64 { return ix.version }

// OnChange registers fn to run after every version bump and returns a
// function that removes it.
func (ix *Interaction) OnChange(fn func(version uint64)) (remove func()) {
	id := ix.nextID
	ix.nextID++
	ix.listeners[id] = fn
	return func() { delete(ix.listeners, id) }
}

func (ix *Interaction) bump() {
	ix.version++
	ids := make([]int, 0, len(ix.listeners))
	for id := range ix.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := ix.listeners[id]; ok {
			fn(ix.version)
		}
	}
}

// Selected returns the selected node id, or "" when nothing is selected.
func (ix *Interaction) Selected() string { return ix.selected }

// Select makes id the selected node. Unknown ids are ignored.
func (ix *Interaction) Select(id string) {
	if !ix.layout.Has(id) {
		return
	}
	ix.setSelected(id)
}

// Deselect clears the selection. Every pinned node animates back home and
// loses its pin when the animation completes.
func (ix *Interaction) Deselect() { ix.setSelected("") }

func (ix *Interaction) setSelected(id string) {
	if id == ix.selected {
		return
	}
	ix.selected = id
	ix.bump()
	if id == "" {
		ix.returnPinsHome()
	}
}

func (ix *Interaction) returnPinsHome() {
	for _, id := range ix.pinnedIDs() {
		if g := ix.gestures[id]; g != nil && g.dragging {
			continue
		}
		ix.sendHome(id, ix.Position(id))
	}
}

// sendHome animates id to its home position and removes its pin
// when the animation completes.
func (ix *Interaction) sendHome(id string, from Point) {
	n, ok := ix.layout.Node(id)
	if !ok {
		delete(ix.pins, id)
		return
	}
	ix.anim.Start(id, from, n.Home, ix.params.ResetDuration, func(Point) {
		delete(ix.pins, id)
		ix.bump()
	})
}

// resetPending reports whether the selection was cleared during a drag.
// PointerDown always selects, so an empty selection at the end of a drag
// means a deselect arrived mid-gesture and the node belongs at home.
func (ix *Interaction) resetPending() bool {
	return ix.selected == ""
}

// PointerDown selects id and begins a gesture. No drag starts until the
// pointer travels past the drag threshold.
func (ix *Interaction) PointerDown(id string) bool {
	if !ix.layout.Has(id) {
		return false
	}
	wasSelected := ix.selected == id
	ix.gestures[id] = &gesture{origin: ix.Position(id), wasSelected: wasSelected}
	ix.setSelected(id)
	return true
}

// PointerMove reports the cumulative pointer displacement since PointerDown.
// Movement below the drag threshold is ignored. Crossing it starts a drag:
// any running animation for the node stops and, if the node has no pin yet,
// its home position becomes the pin baseline.
func (ix *Interaction) PointerMove(id string, dx, dy float64) {
	g := ix.gestures[id]
	if g == nil {
		return
	}
	if !g.dragging {
		if math.Hypot(dx, dy) < ix.params.DragThreshold {
			return
		}
		g.dragging = true
		ix.anim.Cancel(id)
		if _, pinned := ix.pins[id]; !pinned {
			if n, ok := ix.layout.Node(id); ok {
				ix.pins[id] = n.Home
			}
		}
	}
	ix.live[id] = ix.clampNode(id, g.origin.Add(dx, dy))
	ix.bump()
}

// PointerUp ends the gesture. Without a drag it is a tap, which toggles the
// node's selection. After a drag the node coasts by a velocity-based nudge,
// animates to its resting point and is pinned there.
func (ix *Interaction) PointerUp(id string, dx, dy, vx, vy float64) {
	g := ix.gestures[id]
	if g == nil {
		return
	}
	delete(ix.gestures, id)

	if !g.dragging {
		if g.wasSelected {
			ix.setSelected("")
		}
		return
	}

	from, ok := ix.live[id]
	if !ok {
		from = g.origin
	}
	delete(ix.live, id)

	if ix.resetPending() {
		ix.sendHome(id, from)
		ix.bump()
		return
	}

	limit := ix.params.NudgeLimit
	nx := clamp(vx*100*ix.params.NudgeScale, -limit, limit)
	ny := clamp(vy*100*ix.params.NudgeScale, -limit, limit)
	target := ix.clampNode(id, g.origin.Add(dx+nx, dy+ny))

	ix.anim.Start(id, from, target, ix.params.ReleaseDuration, func(p Point) {
		ix.pins[id] = p
		ix.bump()
	})
	ix.bump()
}

// Cancel aborts an interrupted gesture. A node that was being dragged is
// pinned where it currently is, without animation, unless the selection was
// cleared during the drag, in which case it returns home.
func (ix *Interaction) Cancel(id string) {
	g := ix.gestures[id]
	if g == nil {
		return
	}
	delete(ix.gestures, id)
	if !g.dragging {
		return
	}
	cur, ok := ix.live[id]
	if !ok {
		ix.bump()
		return
	}
	delete(ix.live, id)
	if ix.resetPending() {
		ix.sendHome(id, cur)
	} else {
		ix.pins[id] = cur
	}
	ix.bump()
}

// Tick advances running animations by dt. Each frame that moves a node
// bumps the version so edge geometry follows.
func (ix *Interaction) Tick(dt time.Duration) {
	if ix.anim.Tick(dt) > 0 {
		ix.bump()
	}
}

// Animating reports whether any node is animating.
func (ix *Interaction) Animating() bool { return ix.anim.Active() }

// SetLayout replaces the layout after a data or viewport change. Pins,
// gestures and animations of nodes that disappeared or moved to another
// ring are dropped; surviving pins are clamped to the new canvas. Losing
// the selected node clears the selection.
func (ix *Interaction) SetLayout(l *Layout) {
	old := ix.layout
	ix.layout = l
	ix.params = l.Params

	keep := func(id string) bool {
		n, ok := l.Node(id)
		if !ok {
			return false
		}
		prev, ok := old.Node(id)
		return ok && prev.Ring == n.Ring
	}
	for id, p := range ix.pins {
		if !keep(id) {
			delete(ix.pins, id)
			continue
		}
		ix.pins[id] = ix.clampNode(id, p)
	}
	for id := range ix.live {
		if !keep(id) {
			delete(ix.live, id)
		}
	}
	for id := range ix.gestures {
		if !keep(id) {
			delete(ix.gestures, id)
		}
	}
	for _, id := range ix.animatingIDs() {
		if !keep(id) {
			ix.anim.Cancel(id)
		}
	}

	ix.bump()
	if ix.selected != "" && !l.Has(ix.selected) {
		ix.setSelected("")
	}
}

func (ix *Interaction) animatingIDs() []string {
	ids := make([]string, 0, len(ix.anim.tracks))
	for id := range ix.anim.tracks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Position returns the displayed top-left position of id.
func (ix *Interaction) Position(id string) Point {
	if p, ok := ix.anim.Position(id); ok {
		return p
	}
	if p, ok := ix.live[id]; ok {
		return p
	}
	if p, ok := ix.pins[id]; ok {
		return p
	}
	n, _ := ix.layout.Node(id)
	return n.Home
}

// CenterOf returns the displayed midpoint of id.
func (ix *Interaction) CenterOf(id string) Point {
	n, _ := ix.layout.Node(id)
	return ix.Position(id).Add(n.Diameter/2, n.Diameter/2)
}

// State returns where id is in the drag/pin/reset cycle.
func (ix *Interaction) State(id string) NodeState {
	if g := ix.gestures[id]; g != nil && g.dragging {
		return StateDragging
	}
	if _, ok := ix.pins[id]; ok {
		return StatePinned
	}
	return StateHome
}

// Pin returns the pinned position of id.
func (ix *Interaction) Pin(id string) (Point, bool) {
	p, ok := ix.pins[id]
	return p, ok
}

// Pins returns a copy of every pin entry.
func (ix *Interaction) Pins() map[string]Point {
	out := make(map[string]Point, len(ix.pins))
	for id, p := range ix.pins {
		out[id] = p
	}
	return out
}

// Restore replaces the selection and pin set in one step, as when resuming
// a saved session. Ids outside the layout are skipped and pins are clamped
// to the canvas. Pins only survive alongside a selection, so an empty or
// unknown selected id restores nothing.
func (ix *Interaction) Restore(selected string, pins map[string]Point) {
	ix.anim = NewAnimator()
	clear(ix.live)
	clear(ix.gestures)
	clear(ix.pins)
	ix.selected = ""
	if ix.layout.Has(selected) {
		ix.selected = selected
		for id, p := range pins {
			if ix.layout.Has(id) {
				ix.pins[id] = ix.clampNode(id, p)
			}
		}
	}
	ix.bump()
}

func (ix *Interaction) pinnedIDs() []string {
	ids := make([]string, 0, len(ix.pins))
	for id := range ix.pins {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (ix *Interaction) clampNode(id string, p Point) Point {
	n, _ := ix.layout.Node(id)
	return ix.layout.Clamp(p, n.Diameter)
}

// EdgeGeometry resolves the layout's edges against displayed positions.
// The result is cached until the next version bump. Zero-length edges are
// left out.
func (ix *Interaction) EdgeGeometry() []EdgeGeometry {
	if ix.edgeValid && ix.edgeVersion == ix.version {
		return ix.edgeCache
	}
	out := make([]EdgeGeometry, 0, len(ix.layout.Edges))
	for _, e := range ix.layout.Edges {
		seg, ok := NewSegment(ix.CenterOf(e.A), ix.CenterOf(e.B))
		if !ok {
			continue
		}
		out = append(out, EdgeGeometry{
			Edge:        e,
			Segment:     seg,
			Opacity:     ix.params.EdgeOpacity(e, ix.selected),
			Highlighted: e.Touches(ix.selected),
		})
	}
	ix.edgeCache = out
	ix.edgeVersion = ix.version
	ix.edgeValid = true
	return out
}

// Connectors returns the ring outline: segments joining consecutive nodes
// of each ring with more than one member, closing back to the first node.
func (ix *Interaction) Connectors() []Segment {
	var out []Segment
	for _, r := range []Ring{RingFirst, RingSecond, RingThird} {
		nodes := ix.layout.Ring(r)
		if len(nodes) < 2 {
			continue
		}
		n := len(nodes)
		if n == 2 {
			n = 1
		}
		for i := 0; i < n; i++ {
			a := nodes[i]
			b := nodes[(i+1)%len(nodes)]
			if seg, ok := NewSegment(ix.CenterOf(a.ID), ix.CenterOf(b.ID)); ok {
				out = append(out, seg)
			}
		}
	}
	return out
}
