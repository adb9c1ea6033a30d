package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/tavalabs/tava/pkg/graph"
)

// pointsPerInch converts canvas pixels to Graphviz node sizes.
const pointsPerInch = 72

// Options configures DOT generation.
type Options struct {
	// Labels draws the badge letter inside each node. When false nodes are
	// unlabeled discs.
	Labels bool

	// Connectors adds the ring outline as dashed edges.
	Connectors bool
}

var ringFill = map[string]string{
	graph.RingCenter: "#1f6feb",
	graph.RingFirst:  "#6d5bbf",
	graph.RingSecond: "#30363d",
	graph.RingThird:  "#30363d",
}

// ToDOT converts a layout to Graphviz DOT. Canvas y grows downward while
// Graphviz y grows upward, so positions are flipped about the canvas height.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"#121212\";\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%s,%s\";\n", num(l.Size), num(l.Size))
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontcolor=white, fontname=\"Helvetica\", penwidth=2];\n")
	buf.WriteString("  edge [penwidth=1];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		c := n.Center()
		fill, ok := ringFill[n.Ring]
		if !ok {
			fill = ringFill[graph.RingThird]
		}
		label := ""
		if opts.Labels {
			label = n.Label
		}
		attrs := []string{
			fmt.Sprintf("label=%q", label),
			fmt.Sprintf("pos=\"%s,%s!\"", num(c.X), num(l.Size-c.Y)),
			fmt.Sprintf("width=%s", num(n.Diameter/pointsPerInch)),
			fmt.Sprintf("fillcolor=%q", fill),
			fmt.Sprintf("fontsize=%s", num(n.Diameter*0.45)),
		}
		if n.Selected {
			attrs = append(attrs, "color=\"#ffffff\"")
		} else {
			attrs = append(attrs, fmt.Sprintf("color=%q", fill))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	if opts.Connectors {
		for _, pair := range ringPairs(l) {
			fmt.Fprintf(&buf, "  %q -- %q [style=dashed, color=\"#1f293799\"];\n", pair[0], pair[1])
		}
	}
	for _, e := range l.Edges {
		color := "#3a424a"
		if e.Highlighted {
			color = "#ffffff"
		}
		fmt.Fprintf(&buf, "  %q -- %q [color=\"%s%02x\"];\n", e.From, e.To, color, alpha(e.Opacity))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ringPairs lists consecutive node pairs of every outer ring with more than
// one member, closing the cycle for rings of three or more.
func ringPairs(l graph.Layout) [][2]string {
	rings := map[string][]string{}
	var order []string
	for _, n := range l.Nodes {
		if n.Ring == graph.RingCenter {
			continue
		}
		if _, ok := rings[n.Ring]; !ok {
			order = append(order, n.Ring)
		}
		rings[n.Ring] = append(rings[n.Ring], n.ID)
	}
	var out [][2]string
	for _, r := range order {
		ids := rings[r]
		switch {
		case len(ids) < 2:
		case len(ids) == 2:
			out = append(out, [2]string{ids[0], ids[1]})
		default:
			for i := range ids {
				out = append(out, [2]string{ids[i], ids[(i+1)%len(ids)]})
			}
		}
	}
	return out
}

func alpha(opacity float64) int {
	return int(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders DOT source to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders DOT source to PNG with the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag, which carries pt units and
// a transform-dependent viewBox, with a plain pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
