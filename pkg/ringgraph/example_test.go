package ringgraph_test

import (
	"fmt"
	"time"

	"github.com/tavalabs/tava/pkg/ringgraph"
)

type graph map[string][]string

func (g graph) Roster() []string            { return []string{"E", "A", "B", "C"} }
func (g graph) LikedIDs(id string) []string { return g[id] }

func ExampleCompute() {
	// E likes A and B; A likes C.
	src := graph{"E": {"A", "B"}, "A": {"C"}}
	l := ringgraph.Compute("E", src, ringgraph.Viewport{Width: 390, Height: 844}, ringgraph.DefaultParams())

	fmt.Println("ring 1:", l.Partition.Ring1)
	fmt.Println("ring 2:", l.Partition.Ring2)
	fmt.Println("ring 3:", l.Partition.Ring3)
	for _, e := range l.Edges {
		fmt.Printf("%s-%s depth=%d %s\n", e.A, e.B, e.Depth, e.Category)
	}
	// Output:
	// ring 1: [A B]
	// ring 2: [C]
	// ring 3: []
	// E-A depth=0 center-first
	// E-B depth=0 center-first
	// A-C depth=1 first-second
}

func ExampleInteraction() {
	src := graph{"E": {"A", "B"}, "A": {"C"}}
	l := ringgraph.Compute("E", src, ringgraph.Viewport{Width: 390, Height: 844}, ringgraph.DefaultParams())
	ix := ringgraph.NewInteraction(l)

	ix.PointerDown("A")
	ix.PointerMove("A", 30, 12)
	fmt.Println(ix.State("A"))

	ix.PointerUp("A", 30, 12, 0, 0)
	ix.Tick(200 * time.Millisecond)
	fmt.Println(ix.State("A"), len(ix.Pins()))

	ix.Deselect()
	ix.Tick(200 * time.Millisecond)
	fmt.Println(ix.State("A"), len(ix.Pins()))
	// Output:
	// dragging
	// pinned 1
	// home 0
}
