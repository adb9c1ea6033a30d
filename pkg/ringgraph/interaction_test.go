package ringgraph

import (
	"testing"
	"time"
)

func exampleLayout(t *testing.T) *Layout {
	t.Helper()
	l := Compute("E", edgeExample(), Viewport{Width: 1000, Height: 1000}, DefaultParams())
	if !l.Has("A") || !l.Has("C") {
		t.Fatalf("layout missing nodes: %+v", l.Nodes)
	}
	return l
}

func home(t *testing.T, l *Layout, id string) Point {
	t.Helper()
	n, ok := l.Node(id)
	if !ok {
		t.Fatalf("no node %q", id)
	}
	return n.Home
}

// pinA drags A by (dx, 0), releases it without velocity and lets the
// release animation settle.
func pinA(t *testing.T, ix *Interaction, dx float64) {
	t.Helper()
	ix.PointerDown("A")
	ix.PointerMove("A", dx, 0)
	ix.PointerUp("A", dx, 0, 0, 0)
	ix.Tick(ix.params.ReleaseDuration)
	if ix.State("A") != StatePinned {
		t.Fatalf("State(A) = %v, want pinned", ix.State("A"))
	}
}

func TestTapNeverPins(t *testing.T) {
	ix := NewInteraction(exampleLayout(t))

	if !ix.PointerDown("A") {
		t.Fatal("PointerDown(A) = false")
	}
	if ix.Selected() != "A" {
		t.Errorf("Selected = %q, want A", ix.Selected())
	}
	ix.PointerMove("A", 3, 4) // 5 < threshold
	ix.PointerUp("A", 3, 4, 0, 0)

	if n := len(ix.Pins()); n != 0 {
		t.Errorf("len(Pins) = %d after tap, want 0", n)
	}
	if ix.State("A") != StateHome {
		t.Errorf("State(A) = %v, want home", ix.State("A"))
	}
	if ix.Selected() != "A" {
		t.Errorf("Selected = %q after first tap, want A", ix.Selected())
	}

	ix.PointerDown("A")
	ix.PointerUp("A", 0, 0, 0, 0)
	if ix.Selected() != "" {
		t.Errorf("Selected = %q after second tap, want none", ix.Selected())
	}
}

func TestPointerDownUnknown(t *testing.T) {
	ix := NewInteraction(exampleLayout(t))
	if ix.PointerDown("nobody") {
		t.Error("PointerDown(nobody) = true")
	}
	ix.PointerMove("nobody", 50, 50)
	ix.PointerUp("nobody", 50, 50, 0, 0)
	if ix.Selected() != "" || len(ix.Pins()) != 0 {
		t.Errorf("unknown node changed state: selected %q, pins %v", ix.Selected(), ix.Pins())
	}
}

func TestDragPins(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	h := home(t, l, "A")

	ix.PointerDown("A")
	ix.PointerMove("A", 30, 0)
	if ix.State("A") != StateDragging {
		t.Fatalf("State(A) = %v, want dragging", ix.State("A"))
	}
	if _, ok := ix.Pin("A"); !ok {
		t.Error("drag past threshold did not create a pin entry")
	}
	if got, want := ix.Position("A"), h.Add(30, 0); got != want {
		t.Errorf("Position during drag = %v, want %v", got, want)
	}

	ix.PointerUp("A", 30, 0, 0, 0)
	if !ix.Animating() {
		t.Error("release did not start an animation")
	}
	ix.Tick(l.Params.ReleaseDuration)
	if ix.Animating() {
		t.Error("release animation still running")
	}
	pin, ok := ix.Pin("A")
	if !ok || pin != h.Add(30, 0) {
		t.Errorf("Pin(A) = %v, %v; want %v", pin, ok, h.Add(30, 0))
	}
	if ix.Position("A") != pin {
		t.Errorf("Position = %v, want pin %v", ix.Position("A"), pin)
	}
}

func TestReleaseNudge(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy float64
		nx, ny float64
	}{
		{"Still", 0, 0, 0, 0},
		{"Slow", 0.5, 0, 6, 0},
		{"FastCapped", 10, -10, 40, -40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := exampleLayout(t)
			ix := NewInteraction(l)
			h := home(t, l, "A")
			n, _ := l.Node("A")

			ix.PointerDown("A")
			ix.PointerMove("A", 30, 0)
			ix.PointerUp("A", 30, 0, tt.vx, tt.vy)
			ix.Tick(time.Second)

			want := l.Clamp(h.Add(30+tt.nx, tt.ny), n.Diameter)
			pin, _ := ix.Pin("A")
			if !approx(pin.X, want.X) || !approx(pin.Y, want.Y) {
				t.Errorf("Pin(A) = %v, want %v", pin, want)
			}
		})
	}
}

func TestDragClamped(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	n, _ := l.Node("A")
	maxXY := l.Size() - n.Diameter

	ix.PointerDown("A")
	ix.PointerMove("A", -5000, -5000)
	if got := ix.Position("A"); got != (Point{0, 0}) {
		t.Errorf("Position = %v, want (0, 0)", got)
	}
	ix.PointerMove("A", 5000, 5000)
	if got := ix.Position("A"); got != (Point{maxXY, maxXY}) {
		t.Errorf("Position = %v, want (%v, %v)", got, maxXY, maxXY)
	}
	ix.PointerUp("A", 5000, 5000, 10, 10)
	for i := 0; i < 10; i++ {
		ix.Tick(20 * time.Millisecond)
		p := ix.Position("A")
		if p.X < 0 || p.Y < 0 || p.X > maxXY || p.Y > maxXY {
			t.Fatalf("Position %v escaped canvas during release", p)
		}
	}
	if pin, _ := ix.Pin("A"); pin != (Point{maxXY, maxXY}) {
		t.Errorf("Pin(A) = %v, want (%v, %v)", pin, maxXY, maxXY)
	}
}

func TestDeselectReturnsHome(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	pinA(t, ix, 40)

	ix.Deselect()
	if !ix.Animating() {
		t.Fatal("Deselect did not start the reset animation")
	}
	if _, ok := ix.Pin("A"); !ok {
		t.Error("pin removed before the reset animation finished")
	}

	ix.Tick(l.Params.ResetDuration / 2)
	mid := ix.Position("A")
	h := home(t, l, "A")
	if mid.X <= h.X || mid.X >= h.X+40 {
		t.Errorf("mid-reset X = %v, want between %v and %v", mid.X, h.X, h.X+40)
	}

	ix.Tick(l.Params.ResetDuration / 2)
	if n := len(ix.Pins()); n != 0 {
		t.Errorf("len(Pins) = %d after reset, want 0", n)
	}
	if ix.Position("A") != h {
		t.Errorf("Position = %v, want home %v", ix.Position("A"), h)
	}
	if ix.State("A") != StateHome {
		t.Errorf("State = %v, want home", ix.State("A"))
	}
}

func TestTapSelectedDeselects(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	pinA(t, ix, 40)

	ix.PointerDown("A")
	ix.PointerUp("A", 0, 0, 0, 0)
	if ix.Selected() != "" {
		t.Fatalf("Selected = %q, want none", ix.Selected())
	}
	ix.Tick(l.Params.ResetDuration)
	if len(ix.Pins()) != 0 {
		t.Errorf("pins = %v, want none", ix.Pins())
	}
}

func TestSelectingOtherNodeKeepsPins(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	pinA(t, ix, 40)

	ix.Select("B")
	ix.Tick(time.Second)
	if _, ok := ix.Pin("A"); !ok {
		t.Error("switching selection dropped the pin on A")
	}
}

func TestDragInterruptsReset(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	pinA(t, ix, 40)

	ix.Deselect()
	ix.Tick(l.Params.ResetDuration / 2)
	mid := ix.Position("A")

	ix.PointerDown("A")
	ix.PointerMove("A", 20, 0)
	if ix.Animating() {
		t.Error("drag did not cancel the reset animation")
	}
	ix.Tick(time.Second)
	if _, ok := ix.Pin("A"); !ok {
		t.Error("cancelled reset still removed the pin")
	}
	if got, want := ix.Position("A"), mid.Add(20, 0); !approx(got.X, want.X) || !approx(got.Y, want.Y) {
		t.Errorf("Position = %v, want %v", got, want)
	}
}

func TestDeselectDuringDrag(t *testing.T) {
	tests := []struct {
		name  string
		moves []float64 // displacements before Deselect, then after
		end   func(ix *Interaction)
	}{
		{
			name:  "release",
			moves: []float64{40, 50},
			end:   func(ix *Interaction) { ix.PointerUp("A", 50, 0, 0, 0) },
		},
		{
			name:  "cancel",
			moves: []float64{40, 50},
			end:   func(ix *Interaction) { ix.Cancel("A") },
		},
		{
			name:  "drag starts after deselect",
			moves: []float64{2, 50},
			end:   func(ix *Interaction) { ix.PointerUp("A", 50, 0, 0, 0) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := exampleLayout(t)
			ix := NewInteraction(l)
			h := home(t, l, "A")

			ix.PointerDown("A")
			ix.PointerMove("A", tt.moves[0], 0)
			ix.Deselect()
			ix.PointerMove("A", tt.moves[1], 0)
			tt.end(ix)

			for i := 0; i < 20; i++ {
				ix.Tick(l.Params.ResetDuration)
			}
			if ix.Selected() != "" {
				t.Errorf("Selected = %q, want none", ix.Selected())
			}
			if _, ok := ix.Pin("A"); ok {
				t.Error("pin left behind with nothing selected")
			}
			if ix.State("A") != StateHome {
				t.Errorf("State = %v, want home", ix.State("A"))
			}
			if ix.Position("A") != h {
				t.Errorf("Position = %v, want home %v", ix.Position("A"), h)
			}
		})
	}
}

func TestReselectDuringDragKeepsPin(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)

	ix.PointerDown("A")
	ix.PointerMove("A", 40, 0)
	ix.Deselect()
	ix.Select("B")
	ix.PointerUp("A", 40, 0, 0, 0)
	ix.Tick(l.Params.ReleaseDuration)

	if _, ok := ix.Pin("A"); !ok {
		t.Error("release under a new selection did not pin")
	}
}

func TestCancelPinsInPlace(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	h := home(t, l, "A")

	ix.PointerDown("A")
	ix.PointerMove("A", 20, 0)
	ix.Cancel("A")

	if ix.Animating() {
		t.Error("Cancel started an animation")
	}
	if pin, ok := ix.Pin("A"); !ok || pin != h.Add(20, 0) {
		t.Errorf("Pin(A) = %v, %v; want %v", pin, ok, h.Add(20, 0))
	}
	if ix.State("A") != StatePinned {
		t.Errorf("State = %v, want pinned", ix.State("A"))
	}
}

func TestVersionAndListeners(t *testing.T) {
	ix := NewInteraction(exampleLayout(t))
	var calls int
	var last uint64
	remove := ix.OnChange(func(v uint64) {
		calls++
		last = v
	})

	v0 := ix.Version()
	ix.PointerDown("A")
	ix.PointerMove("A", 10, 0)
	ix.PointerMove("A", 12, 0)
	if ix.Version() <= v0 {
		t.Fatalf("Version did not advance: %d", ix.Version())
	}
	if last != ix.Version() {
		t.Errorf("listener saw %d, want %d", last, ix.Version())
	}

	remove()
	before := calls
	ix.PointerMove("A", 14, 0)
	if calls != before {
		t.Errorf("removed listener called %d more times", calls-before)
	}

	v := ix.Version()
	ix.Select("A") // already selected
	ix.Tick(0)
	if ix.Version() != v {
		t.Errorf("no-op calls bumped version %d -> %d", v, ix.Version())
	}
}

func TestTickBumpsEveryFrame(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	ix.PointerDown("A")
	ix.PointerMove("A", 30, 0)
	ix.PointerUp("A", 30, 0, 5, 0)

	for ix.Animating() {
		v := ix.Version()
		ix.Tick(16 * time.Millisecond)
		if ix.Version() == v {
			t.Fatal("animation frame did not bump version")
		}
	}
}

func TestEdgeGeometryDimming(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	p := l.Params

	base := ix.EdgeGeometry()
	if len(base) != 3 {
		t.Fatalf("len(EdgeGeometry) = %d, want 3", len(base))
	}
	for _, g := range base {
		if want := p.EdgeBase[g.Depth]; !approx(g.Opacity, want) || g.Highlighted {
			t.Errorf("edge %s opacity = %v highlighted = %v, want %v", g.Key(), g.Opacity, g.Highlighted, want)
		}
	}
	if again := ix.EdgeGeometry(); &again[0] != &base[0] {
		t.Error("EdgeGeometry recomputed without a version change")
	}

	ix.Select("B")
	for _, g := range ix.EdgeGeometry() {
		b := p.EdgeBase[g.Depth]
		if g.Touches("B") {
			if !g.Highlighted || !approx(g.Opacity, b+p.HighlightBoost) {
				t.Errorf("edge %s touching selection: opacity %v", g.Key(), g.Opacity)
			}
		} else if !approx(g.Opacity, b*p.DimFactor) || g.Opacity == 0 {
			t.Errorf("edge %s not dimmed: opacity %v", g.Key(), g.Opacity)
		}
	}

	ix.Deselect()
	for _, g := range ix.EdgeGeometry() {
		if !approx(g.Opacity, p.EdgeBase[g.Depth]) {
			t.Errorf("edge %s opacity %v not restored", g.Key(), g.Opacity)
		}
	}
}

func TestEdgeGeometryFollowsDrag(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)

	ix.PointerDown("C")
	ix.PointerMove("C", 25, 0)
	var found bool
	for _, g := range ix.EdgeGeometry() {
		if g.Key() != "A|C" {
			continue
		}
		found = true
		if g.To != ix.CenterOf("C") {
			t.Errorf("edge end = %v, want live center %v", g.To, ix.CenterOf("C"))
		}
	}
	if !found {
		t.Error("missing A|C edge")
	}
}

func TestConnectors(t *testing.T) {
	ix := NewInteraction(exampleLayout(t))
	// Ring 1 has two nodes (one segment), ring 2 has one (none).
	if got := len(ix.Connectors()); got != 1 {
		t.Errorf("len(Connectors) = %d, want 1", got)
	}

	ids := []string{"E", "a", "b", "c", "d"}
	l := Compute("E", newLikes(ids, map[string][]string{"E": {"a", "b", "c", "d"}}), Viewport{Width: 1000, Height: 1000}, DefaultParams())
	if got := len(NewInteraction(l).Connectors()); got != 4 {
		t.Errorf("len(Connectors) = %d, want 4 for a closed ring of four", got)
	}
}

func TestSetLayoutDropsVanishedNodes(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	pinA(t, ix, 40)

	next := Compute("E", newLikes([]string{"E", "B"}, map[string][]string{"E": {"B"}}), Viewport{Width: 1000, Height: 1000}, DefaultParams())
	ix.SetLayout(next)

	if _, ok := ix.Pin("A"); ok {
		t.Error("pin on vanished node survived")
	}
	if ix.Selected() != "" {
		t.Errorf("Selected = %q, want none after node vanished", ix.Selected())
	}
	if ix.Layout() != next {
		t.Error("Layout not replaced")
	}
}

func TestSetLayoutClampsPins(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	ix.PointerDown("A")
	ix.PointerMove("A", 5000, 5000)
	ix.Cancel("A")

	small := Compute("E", edgeExample(), Viewport{Width: 300, Height: 400}, DefaultParams())
	ix.SetLayout(small)

	n, _ := small.Node("A")
	maxXY := small.Size() - n.Diameter
	pin, ok := ix.Pin("A")
	if !ok {
		t.Fatal("pin dropped on resize")
	}
	if pin.X > maxXY || pin.Y > maxXY {
		t.Errorf("pin %v outside resized canvas (max %v)", pin, maxXY)
	}
	if ix.Selected() != "A" {
		t.Errorf("Selected = %q, want A", ix.Selected())
	}
}

func TestRestore(t *testing.T) {
	l := exampleLayout(t)
	ix := NewInteraction(l)
	before := ix.Version()

	ix.Restore("A", map[string]Point{
		"A":     {X: 10, Y: 10},
		"C":     {X: 1e6, Y: -5},
		"ghost": {X: 1, Y: 1},
	})
	if ix.Selected() != "A" {
		t.Errorf("Selected = %q, want A", ix.Selected())
	}
	if ix.Version() == before {
		t.Error("Restore should bump the version")
	}
	if p, ok := ix.Pin("A"); !ok || p != (Point{X: 10, Y: 10}) {
		t.Errorf("Pin(A) = %v, %v", p, ok)
	}
	n, _ := l.Node("C")
	if p, _ := ix.Pin("C"); p.X != l.Size()-n.Diameter || p.Y != 0 {
		t.Errorf("Pin(C) = %v, want clamped to canvas", p)
	}
	if len(ix.Pins()) != 2 {
		t.Errorf("Pins = %v, want unknown ids skipped", ix.Pins())
	}

	ix.Restore("", map[string]Point{"A": {X: 1, Y: 1}})
	if ix.Selected() != "" || len(ix.Pins()) != 0 {
		t.Errorf("restore without selection kept state: %q %v", ix.Selected(), ix.Pins())
	}
}

func TestNodeStateString(t *testing.T) {
	tests := []struct {
		s    NodeState
		want string
	}{
		{StateHome, "home"},
		{StateDragging, "dragging"},
		{StatePinned, "pinned"},
		{NodeState(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
