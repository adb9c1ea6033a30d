// Package render groups Tava's output formats for ring layouts.
//
// # Overview
//
// Every renderer consumes the wire form of a layout ([graph.Layout]), so the
// same drawing can be produced from a freshly computed layout, a layout read
// from disk, or a live interaction session frame.
//
//   - [svg]: self-contained SVG of the canvas as the app draws it
//   - [nodelink]: Graphviz DOT with pinned positions, plus SVG and PNG via
//     go-graphviz
//
//	out := graph.FromLayout(l, ix, roster)
//	doc := svg.Render(out, svg.Defaults()...)
//
//	dot := nodelink.ToDOT(out, nodelink.Options{Labels: true})
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// [graph.Layout]: github.com/tavalabs/tava/pkg/graph#Layout
// [svg]: github.com/tavalabs/tava/pkg/render/svg
// [nodelink]: github.com/tavalabs/tava/pkg/render/nodelink
package render
