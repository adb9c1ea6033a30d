// Package graph provides serialization types for connection graphs and ring
// layouts.
//
// This package defines the canonical wire format for Tava's graph data,
// used for JSON files, API responses, websocket frames, caching and the
// renderers.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/roster.Roster: Internal connection data
//   - pkg/ringgraph.Layout and Interaction: Internal layout and drag state
//
// Use [FromRoster]/[ToRoster] and [FromLayout] to convert between them.
//
// # Graph Serialization
//
// Connection graphs use a node-link JSON format where every edge is a
// directed like:
//
//	{
//	  "nodes": [{"id": "me"}, {"id": "alice", "label": "Alice"}],
//	  "edges": [{"from": "me", "to": "alice"}]
//	}
//
// Common operations:
//
//	r, _ := graph.ReadGraphFile("likes.json")   // File → Roster
//	graph.WriteGraphFile(r, "output.json")      // Roster → File
//	data, _ := graph.MarshalGraph(r)            // Roster → []byte
//
// # Layout Serialization
//
// A [Layout] is a ring layout with the interaction state applied: node
// positions are what the user currently sees, edge opacity reflects the
// selection and the ring connectors follow dragged nodes.
//
//	ix := ringgraph.NewInteraction(l)
//	out := graph.FromLayout(l, ix, r)
//	data, _ := graph.MarshalLayout(out)
//	back, _ := graph.UnmarshalLayout(data)     // validates structure
package graph
