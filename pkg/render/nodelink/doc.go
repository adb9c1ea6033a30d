// Package nodelink renders ring layouts through Graphviz.
//
// # Overview
//
// [ToDOT] writes an undirected DOT graph whose nodes carry pinned `pos`
// attributes taken from the layout, so Graphviz's neato engine draws every
// node exactly where the ring layout put it instead of computing its own
// placement. Edge colour alpha follows the layout's edge opacity.
//
//	dot := nodelink.ToDOT(out, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// The DOT source can also be handed to external tools:
//
//	neato -n2 -Tpdf graph.dot > graph.pdf
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package nodelink
