// Package pkg provides the libraries behind Tava's ring graph.
//
// # Overview
//
// Tava shows the people around a focal person on concentric rings: the
// people the focal person likes on the first ring, the people those like on
// the second, and everyone else on the third. Users drag nodes, which stay
// pinned where dropped until the selection is cleared and they glide home.
// The pkg directory is organized into these areas:
//
//  1. [ringgraph] - Layout engine and interaction state machine
//  2. [roster] - Profile snapshots, roster files, Mongo and file sources
//  3. [graph] - Wire types for rosters and resolved layouts
//  4. [render] - SVG and Graphviz output
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//  6. [session] - Persisted interaction sessions
//  7. [cache], [config], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	roster file / MongoDB users collection / demo data
//	         ↓
//	    [roster] package (snapshot: profiles + likes)
//	         ↓
//	    [ringgraph] package (partition → measure → place → edges)
//	         ↓
//	    [ringgraph.Interaction] (selection, drags, pins, animations)
//	         ↓
//	    [graph] package (resolved layout)
//	         ↓
//	    SVG/PNG/DOT/JSON output, or frames over WebSocket
//
// # Quick Start
//
// Lay out the demo roster and render it:
//
//	r := roster.Demo()
//	l := ringgraph.Compute(roster.LocalUserID, r,
//	    ringgraph.Viewport{Width: 390, Height: 844}, ringgraph.DefaultParams())
//
//	ix := ringgraph.NewInteraction(l)
//	ix.Select("demo-user-1")
//
//	doc := svg.Render(graph.FromLayout(l, ix, r), svg.Defaults()...)
//
// Or let the pipeline handle validation and caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, r, pipeline.Options{
//	    Focal:   roster.LocalUserID,
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//
// [ringgraph]: github.com/tavalabs/tava/pkg/ringgraph
// [ringgraph.Interaction]: github.com/tavalabs/tava/pkg/ringgraph#Interaction
// [roster]: github.com/tavalabs/tava/pkg/roster
// [graph]: github.com/tavalabs/tava/pkg/graph
// [render]: github.com/tavalabs/tava/pkg/render
// [pipeline]: github.com/tavalabs/tava/pkg/pipeline
// [session]: github.com/tavalabs/tava/pkg/session
// [cache]: github.com/tavalabs/tava/pkg/cache
// [config]: github.com/tavalabs/tava/pkg/config
// [errors]: github.com/tavalabs/tava/pkg/errors
// [observability]: github.com/tavalabs/tava/pkg/observability
// [buildinfo]: github.com/tavalabs/tava/pkg/buildinfo
package pkg
