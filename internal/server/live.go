package server

import (
	"sync"
	"time"

	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/ringgraph"
	"github.com/tavalabs/tava/pkg/session"
)

// Event kinds a client may send.
const (
	EventDown     = "down"
	EventMove     = "move"
	EventUp       = "up"
	EventCancel   = "cancel"
	EventSelect   = "select"
	EventDeselect = "deselect"
	EventResize   = "resize"
)

// Event is one client input. DX/DY are the cumulative pointer displacement
// since "down"; VX/VY are the release velocity in points per millisecond.
type Event struct {
	Type   string  `json:"type"`
	ID     string  `json:"id,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	VX     float64 `json:"vx,omitempty"`
	VY     float64 `json:"vy,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// live is a session whose interaction state is held in memory. The
// interaction engine is single-threaded, so every access goes through mu.
type live struct {
	mu     sync.Mutex
	snap   session.Snapshot
	ix     *ringgraph.Interaction
	opened time.Time
	dirty  bool // changed since last persisted

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

func newLive(snap session.Snapshot, l *ringgraph.Layout) *live {
	lv := &live{
		snap:   snap,
		ix:     ringgraph.NewInteraction(l),
		opened: time.Now(),
		subs:   make(map[chan struct{}]struct{}),
	}
	snap.Apply(lv.ix)
	lv.ix.OnChange(func(uint64) {
		lv.dirty = true
		lv.notify()
	})
	return lv
}

// subscribe returns a channel signalled after every change. Signals
// coalesce: a slow reader sees one pending signal, then the latest frame.
func (lv *live) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	lv.subMu.Lock()
	lv.subs[ch] = struct{}{}
	lv.subMu.Unlock()
	return ch, func() {
		lv.subMu.Lock()
		delete(lv.subs, ch)
		lv.subMu.Unlock()
	}
}

func (lv *live) notify() {
	lv.subMu.Lock()
	defer lv.subMu.Unlock()
	for ch := range lv.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// frame resolves the current display state against dir.
func (lv *live) frame(dir ringgraph.Directory) graph.Layout {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	return graph.FromLayout(lv.ix.Layout(), lv.ix, dir)
}

// apply feeds ev into the interaction. relayout computes a layout for a
// new viewport.
func (lv *live) apply(ev Event, relayout func(focal string, vp ringgraph.Viewport) *ringgraph.Layout) error {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	if err := lv.check(ev); err != nil {
		return err
	}

	ix := lv.ix
	switch ev.Type {
	case EventDown:
		ix.PointerDown(ev.ID)
	case EventMove:
		ix.PointerMove(ev.ID, ev.DX, ev.DY)
	case EventUp:
		ix.PointerUp(ev.ID, ev.DX, ev.DY, ev.VX, ev.VY)
	case EventCancel:
		ix.Cancel(ev.ID)
	case EventSelect:
		ix.Select(ev.ID)
	case EventDeselect:
		ix.Deselect()
	case EventResize:
		lv.snap.Width, lv.snap.Height = ev.Width, ev.Height
		ix.SetLayout(relayout(lv.snap.Focal, lv.snap.Viewport()))
	}
	return nil
}

// check reports why ev cannot be applied to the current layout. A resize
// keeps the node set, so every event of a batch can be checked up front.
// Callers hold mu.
func (lv *live) check(ev Event) error {
	switch ev.Type {
	case EventDown, EventSelect:
		if !lv.ix.Layout().Has(ev.ID) {
			return errors.New(errors.ErrCodeEntityNotFound, "no node %q in this session", ev.ID)
		}
	case EventMove, EventUp, EventCancel, EventDeselect:
	case EventResize:
		return errors.ValidateViewport(ev.Width, ev.Height)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown event type %q", ev.Type)
	}
	return nil
}

// validate checks a whole batch without applying any of it.
func (lv *live) validate(events []Event) error {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	for i, ev := range events {
		if err := lv.check(ev); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "event %d: %s", i, errors.UserMessage(err))
		}
	}
	return nil
}

// touch extends the session's expiry, as any client activity does, and
// marks it for persisting so the stored copy follows.
func (lv *live) touch(ttl time.Duration) {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	lv.snap.Touch(ttl)
	lv.dirty = true
}

// watched reports whether any WebSocket client is subscribed.
func (lv *live) watched() bool {
	lv.subMu.Lock()
	defer lv.subMu.Unlock()
	return len(lv.subs) > 0
}

// tick advances animations by dt and reports whether any are still running.
func (lv *live) tick(dt time.Duration) bool {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	if !lv.ix.Animating() {
		return false
	}
	lv.ix.Tick(dt)
	return lv.ix.Animating()
}

// setLayout swaps in a layout computed from a new roster.
func (lv *live) setLayout(l *ringgraph.Layout) {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	lv.ix.SetLayout(l)
}

// capture returns the persistable state if it changed since the last call
// and no animation is in flight.
func (lv *live) capture(ttl time.Duration) (session.Snapshot, bool) {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	if !lv.dirty || lv.ix.Animating() {
		return session.Snapshot{}, false
	}
	lv.dirty = false
	lv.snap.Capture(lv.ix)
	lv.snap.Touch(ttl)
	return lv.snap, true
}

func (lv *live) focal() string {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	return lv.snap.Focal
}

func (lv *live) viewport() ringgraph.Viewport {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	return lv.snap.Viewport()
}
