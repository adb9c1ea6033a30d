// Package svg renders a ring layout as a standalone SVG document.
//
// The drawing mirrors the interactive canvas: a dark background, faint ring
// connectors, edges whose opacity follows the current selection, nodes
// coloured by ring with their one-letter badge, and a caption with the ring
// counts.
//
//	out := graph.FromLayout(l, ix, roster)
//	data := svg.Render(out, svg.WithTitle("Your network"))
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/tavalabs/tava/pkg/graph"
)

// Palette of the canvas.
const (
	ColorBackground = "#121212"
	ColorEdge       = "#3a424a"
	ColorHighlight  = "#ffffff"
	ColorConnector  = "#1f2937"
	ColorConnOuter  = "#374151"
	ColorCaption    = "#9ca3af"
	ColorLabel      = "#ffffff"
)

// ringStyle is the fill and stroke for one ring.
type ringStyle struct {
	fill, stroke string
}

var ringStyles = map[string]ringStyle{
	graph.RingCenter: {"#1f6feb", "#388bfd"},
	graph.RingFirst:  {"#6d5bbf", "#8b7bd8"},
	graph.RingSecond: {"#30363d", "#484f58"},
	graph.RingThird:  {"#30363d", "#484f58"},
}

const captionHeight = 28

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	connectors bool
	labels     bool
	caption    bool
	title      string
}

// WithConnectors draws the ring outline segments.
func WithConnectors() Option { return func(r *renderer) { r.connectors = true } }

// WithLabels draws the badge letter inside each node.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithCaption adds the "N direct · M extended" line below the canvas.
func WithCaption() Option { return func(r *renderer) { r.caption = true } }

// WithTitle sets the document <title>.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// Defaults are the options used by the CLI and the server.
func Defaults() []Option {
	return []Option{WithConnectors(), WithLabels(), WithCaption()}
}

// Render draws l. Nodes are drawn at their displayed positions; edges and
// connectors use the segments already resolved in l.
func Render(l graph.Layout, opts ...Option) []byte {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}

	height := l.Size
	if r.caption {
		height += captionHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Size, height, l.Size, height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", ColorBackground)

	if r.connectors {
		renderConnectors(&buf, l)
	}
	renderEdges(&buf, l)
	renderNodes(&buf, l, r.labels)
	if r.caption {
		renderCaption(&buf, l)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderConnectors(buf *bytes.Buffer, l graph.Layout) {
	buf.WriteString(`  <g class="connectors">` + "\n")
	for _, s := range l.Connectors {
		// Connectors on the outer rings sit further from the centre.
		color, opacity := ColorConnector, 0.6
		if dist(s.From, l.Center) > l.Radii[1]*1.2 {
			color, opacity = ColorConnOuter, 0.5
		}
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.2f" stroke-width="1"/>`+"\n",
			s.From.X, s.From.Y, s.To.X, s.To.Y, color, opacity)
	}
	buf.WriteString("  </g>\n")
}

func renderEdges(buf *bytes.Buffer, l graph.Layout) {
	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range l.Edges {
		color := ColorEdge
		if e.Highlighted {
			color = ColorHighlight
		}
		s := e.Segment
		fmt.Fprintf(buf, `    <line class="edge depth-%d" data-from="%s" data-to="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.3f" stroke-width="1"/>`+"\n",
			e.Depth, attr(e.From), attr(e.To), s.From.X, s.From.Y, s.To.X, s.To.Y, color, e.Opacity)
	}
	buf.WriteString("  </g>\n")
}

func renderNodes(buf *bytes.Buffer, l graph.Layout, labels bool) {
	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range l.Nodes {
		st, ok := ringStyles[n.Ring]
		if !ok {
			st = ringStyles[graph.RingThird]
		}
		c := n.Center()
		r := n.Diameter / 2
		classes := []string{"node", "ring-" + n.Ring}
		if n.State != "" {
			classes = append(classes, n.State)
		}
		if n.Selected {
			classes = append(classes, "selected")
		}
		fmt.Fprintf(buf, `    <g id="node-%s" class="%s">`+"\n", attr(n.ID), strings.Join(classes, " "))
		if n.Name != "" {
			fmt.Fprintf(buf, "      <title>%s</title>\n", escapeXML(n.Name))
		}
		fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			c.X, c.Y, r-1, st.fill, st.stroke)
		if labels && n.Label != "" {
			fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" fill="%s" font-family="sans-serif" font-size="%.1f" font-weight="600" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
				c.X, c.Y, ColorLabel, r*0.9, escapeXML(n.Label))
		}
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")
}

func renderCaption(buf *bytes.Buffer, l graph.Layout) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" fill="%s" font-family="sans-serif" font-size="12" text-anchor="middle">%s</text>`+"\n",
		l.Size/2, l.Size+captionHeight/2+4, ColorCaption, escapeXML(Caption(l.Stats)))
}

// Caption formats the ring counts the way the graph header shows them.
func Caption(s graph.Stats) string {
	return fmt.Sprintf("%d direct · %d extended", s.Direct, s.Extended)
}

func attr(s string) string { return escapeXML(s) }

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func dist(a, b graph.Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }
