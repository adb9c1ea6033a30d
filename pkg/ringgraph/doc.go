// Package ringgraph lays out a focal entity's connection graph on concentric
// rings and models the drag/pin/reset interaction on top of that layout.
//
// # Architecture
//
// The package separates two kinds of state:
//
//   - [Layout]: immutable. Ring partition, radii, canvas size and every
//     node's home position. Recomputed with [Compute] whenever the
//     connection data or the viewport changes.
//   - [Interaction]: mutable. Selection, pins, live drag positions and
//     running animations. Every change bumps [Interaction.Version] and
//     notifies listeners, so hosts redraw edges even when positions move
//     outside their own state-update path (live drags, animation frames).
//
// # Rings
//
// Ring 1 holds the entities the focal entity liked. Ring 2 holds entities
// liked by ring-1 members (minus the focal entity and ring 1). When ring 2
// runs out of angular capacity the remainder overflows into ring 3:
//
//	src := roster.Demo()
//	l := ringgraph.Compute("me", src, ringgraph.Viewport{Width: 400, Height: 800}, ringgraph.DefaultParams())
//	for _, n := range l.Nodes {
//	    fmt.Println(n.ID, n.Ring, n.Home)
//	}
//
// # Placement
//
// Nodes start at equal angular spacing from the top of each ring and are
// perturbed by a jitter derived from a hash of their id, so the same input
// always produces the same picture. A single relaxation pass then pushes
// apart neighbours that sit closer than the node diameter allows. This is a
// local best-effort correction; dense rings can still overlap.
//
// # Interaction
//
//	ix := ringgraph.NewInteraction(l)
//	ix.PointerDown("alice")
//	ix.PointerMove("alice", 30, 12) // crosses the drag threshold, pins alice
//	ix.PointerUp("alice", 30, 12, 0, 0)
//	ix.Tick(200 * time.Millisecond) // release animation settles
//	ix.Deselect()                   // pinned nodes animate home
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. Hosts that drive
// [Interaction.Tick] from a timer goroutine must serialise access.
package ringgraph
