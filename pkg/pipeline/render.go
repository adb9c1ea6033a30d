package pipeline

import (
	"context"
	"fmt"

	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/render/nodelink"
	"github.com/tavalabs/tava/pkg/render/svg"
)

// RenderLayout generates output artifacts in the requested formats.
//
// svg is the native renderer; dot is the Graphviz source of the same
// drawing with pinned positions; png goes through Graphviz; json is the
// wire layout itself.
func RenderLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(l, nodelink.Options{Labels: opts.Labels, Connectors: opts.Connectors})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg.Render(l, svgOptions(opts)...)
		case FormatDOT:
			data = []byte(dotSource())
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dotSource())
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// svgOptions maps pipeline flags onto the SVG renderer. The caption is
// always drawn.
func svgOptions(opts Options) []svg.Option {
	out := []svg.Option{svg.WithCaption()}
	if opts.Labels {
		out = append(out, svg.WithLabels())
	}
	if opts.Connectors {
		out = append(out, svg.WithConnectors())
	}
	if opts.Title != "" {
		out = append(out, svg.WithTitle(opts.Title))
	}
	return out
}
