package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/render/svg"
	"github.com/tavalabs/tava/pkg/ringgraph"
)

const (
	frameInterval = 16 * time.Millisecond
	keyStep       = 12.0 // points moved per arrow key while carrying a node
	footerLines   = 5
	minCanvasRows = 8
)

// Ring styles, matching the SVG palette where the terminal allows.
var (
	ringStyles = map[string]lipgloss.Style{
		"center": lipgloss.NewStyle().Bold(true).Foreground(colorWhite),
		"first":  lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		"second": lipgloss.NewStyle().Foreground(colorBlue),
		"third":  lipgloss.NewStyle().Foreground(colorGray),
	}
	edgeStyle      = lipgloss.NewStyle().Foreground(colorDim)
	highlightStyle = lipgloss.NewStyle().Foreground(colorGreen)
	cursorStyle    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	pinnedStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ExploreModel - Interactive ring explorer
// =============================================================================

type tickMsg time.Time

// carry is a node picked up with the keyboard. dx and dy are cumulative.
type carry struct {
	id     string
	dx, dy float64
}

// ExploreModel is the bubbletea model behind `tava explore`. Keyboard input
// is translated into the same pointer gestures a touch screen produces.
type ExploreModel struct {
	ix    *ringgraph.Interaction
	dir   ringgraph.Directory
	order []string

	Cursor  int
	carry   *carry
	Cols    int
	Rows    int
	ticking bool
	last    time.Time
}

// newExploreModel creates an explorer over l, resolving names in dir.
func newExploreModel(l *ringgraph.Layout, dir ringgraph.Directory) ExploreModel {
	order := make([]string, len(l.Nodes))
	for i, n := range l.Nodes {
		order[i] = n.ID
	}
	return ExploreModel{
		ix:    ringgraph.NewInteraction(l),
		dir:   dir,
		order: order,
		Cols:  80,
		Rows:  24,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Cols, m.Rows = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		m.ix.Tick(now.Sub(m.last))
		m.last = now
		if m.ix.Animating() {
			return m, tick()
		}
		m.ticking = false
		return m, nil
	case tea.KeyMsg:
		if m.carry != nil {
			m.updateCarry(msg)
		} else if quit := m.updateBrowse(msg); quit {
			return m, tea.Quit
		}
	}
	return m.startTicking()
}

// updateBrowse handles keys while nothing is carried. It reports whether
// the program should quit.
func (m *ExploreModel) updateBrowse(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	case "tab", "right", "l", "down", "j":
		m.Cursor = (m.Cursor + 1) % len(m.order)
	case "shift+tab", "left", "h", "up", "k":
		m.Cursor = (m.Cursor - 1 + len(m.order)) % len(m.order)
	case "enter", " ":
		id := m.current()
		if m.ix.PointerDown(id) {
			m.ix.PointerUp(id, 0, 0, 0, 0)
		}
	case "d":
		id := m.current()
		if m.ix.PointerDown(id) {
			m.carry = &carry{id: id}
		}
	case "x", "esc":
		m.ix.Deselect()
	}
	return false
}

// updateCarry moves, drops or cancels the carried node.
func (m *ExploreModel) updateCarry(msg tea.KeyMsg) {
	c := m.carry
	switch msg.String() {
	case "left", "h":
		c.dx -= keyStep
	case "right", "l":
		c.dx += keyStep
	case "up", "k":
		c.dy -= keyStep
	case "down", "j":
		c.dy += keyStep
	case "enter", " ", "d":
		m.ix.PointerUp(c.id, c.dx, c.dy, 0, 0)
		m.carry = nil
		return
	case "esc", "ctrl+c", "q":
		m.ix.Cancel(c.id)
		m.carry = nil
		return
	default:
		return
	}
	m.ix.PointerMove(c.id, c.dx, c.dy)
}

func (m ExploreModel) startTicking() (tea.Model, tea.Cmd) {
	if m.ticking || !m.ix.Animating() {
		return m, nil
	}
	m.ticking = true
	m.last = time.Now()
	return m, tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ExploreModel) current() string {
	if len(m.order) == 0 {
		return ""
	}
	return m.order[m.Cursor]
}

// Interaction exposes the underlying interaction state.
func (m ExploreModel) Interaction() *ringgraph.Interaction { return m.ix }

func (m ExploreModel) View() string {
	frame := graph.FromLayout(m.ix.Layout(), m.ix, m.dir)

	var b strings.Builder
	b.WriteString(m.canvas(frame).render())
	b.WriteString("\n")
	b.WriteString(StyleNumber.Render(svg.Caption(frame.Stats)))
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	if m.carry != nil {
		b.WriteString(listDimStyle.Render("carrying  arrows move  enter drop  esc cancel"))
	} else {
		b.WriteString(listDimStyle.Render("tab next  enter tap  d pick up  x deselect  q quit"))
	}
	return b.String()
}

// detail summarizes the node under the cursor.
func (m ExploreModel) detail() string {
	d, ok := ringgraph.Describe(m.dir, m.ix.Layout(), m.current())
	if !ok {
		return listDimStyle.Render(ringgraph.DetailsNotFound)
	}
	line := StyleTitle.Render(d.Name) + " " + listDimStyle.Render(d.Ring)
	if d.Title != "" {
		line += "  " + StyleValue.Render(d.Title)
	}
	if d.Interests != "" {
		line += "  " + listDimStyle.Render(d.Interests)
	}
	if sel := m.ix.Selected(); sel != "" {
		line += "  " + StyleSuccess.Render(fmt.Sprintf("selected: %s", sel))
	}
	return line
}

// =============================================================================
// Canvas - character grid
// =============================================================================

type cell struct {
	ch    rune
	style lipgloss.Style
}

type canvas struct {
	w, h  int
	scale float64 // columns per point; rows use half of it
	cells [][]cell
}

// canvas rasterizes frame into the space left above the footer. Terminal
// cells are about twice as tall as they are wide, so rows advance at half
// the column rate.
func (m ExploreModel) canvas(frame graph.Layout) *canvas {
	rows := max(m.Rows-footerLines, minCanvasRows)
	w := min(m.Cols, rows*2)
	h := w / 2
	cv := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for i := range cv.cells {
		cv.cells[i] = make([]cell, w)
	}
	if frame.Size > 0 {
		cv.scale = float64(w-1) / frame.Size
	}

	for _, s := range frame.Connectors {
		cv.line(s, '·', edgeStyle)
	}
	for _, e := range frame.Edges {
		switch {
		case e.Highlighted:
			cv.line(e.Segment, '•', highlightStyle)
		case e.Opacity >= 0.3:
			cv.line(e.Segment, '·', edgeStyle)
		}
	}

	cursor := m.current()
	for _, n := range frame.Nodes {
		col, row := cv.cellOf(n.Center())
		style, ok := ringStyles[n.Ring]
		if !ok {
			style = StyleValue
		}
		if n.State != "" {
			style = pinnedStyle
		}
		if n.Selected {
			style = style.Reverse(true)
		}
		cv.set(col, row, firstRune(n.Label), style)
		if n.ID == cursor {
			cv.set(col-1, row, '[', cursorStyle)
			cv.set(col+1, row, ']', cursorStyle)
		}
	}
	return cv
}

func (cv *canvas) cellOf(p graph.Point) (int, int) {
	return int(math.Round(p.X * cv.scale)), int(math.Round(p.Y * cv.scale / 2))
}

func (cv *canvas) set(col, row int, ch rune, style lipgloss.Style) {
	if row < 0 || row >= cv.h || col < 0 || col >= cv.w {
		return
	}
	cv.cells[row][col] = cell{ch: ch, style: style}
}

// line plots s without overwriting anything already drawn.
func (cv *canvas) line(s graph.Segment, ch rune, style lipgloss.Style) {
	c0, r0 := cv.cellOf(s.From)
	c1, r1 := cv.cellOf(s.To)
	steps := max(abs(c1-c0), abs(r1-r0))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		col := c0 + int(math.Round(t*float64(c1-c0)))
		row := r0 + int(math.Round(t*float64(r1-r0)))
		if row >= 0 && row < cv.h && col >= 0 && col < cv.w && cv.cells[row][col].ch == 0 {
			cv.cells[row][col] = cell{ch: ch, style: style}
		}
	}
}

func (cv *canvas) render() string {
	var b strings.Builder
	for i, row := range cv.cells {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, c := range row {
			if c.ch == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.ch)))
		}
	}
	return b.String()
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
