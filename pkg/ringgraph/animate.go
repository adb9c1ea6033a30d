package ringgraph

import (
	"slices"
	"time"
)

// Animator runs timed position tracks, one per node, advanced by the host's
// frame clock through Tick. Starting a track for a node that already has one
// replaces it; the replaced track's completion callback never fires.
type Animator struct {
	tracks map[string]*track
}

type track struct {
	from, to Point
	elapsed  time.Duration
	duration time.Duration
	current  Point
	done     func(Point)
}

// NewAnimator returns an idle animator.
func NewAnimator() *Animator {
	return &Animator{tracks: make(map[string]*track)}
}

// Start animates id from one point to another over d and calls done with the
// final point once the track completes. A non-positive duration completes
// immediately.
func (a *Animator) Start(id string, from, to Point, d time.Duration, done func(Point)) {
	delete(a.tracks, id)
	if d <= 0 {
		if done != nil {
			done(to)
		}
		return
	}
	a.tracks[id] = &track{from: from, to: to, duration: d, current: from, done: done}
}

// Cancel stops the track for id without running its callback.
func (a *Animator) Cancel(id string) bool {
	if _, ok := a.tracks[id]; !ok {
		return false
	}
	delete(a.tracks, id)
	return true
}

// Position returns the current point of the running track for id.
func (a *Animator) Position(id string) (Point, bool) {
	t, ok := a.tracks[id]
	if !ok {
		return Point{}, false
	}
	return t.current, true
}

// Running reports whether id has an active track.
func (a *Animator) Running(id string) bool {
	_, ok := a.tracks[id]
	return ok
}

// Active reports whether any track is running.
func (a *Animator) Active() bool { return len(a.tracks) > 0 }

// Tick advances every track by dt and returns how many tracks moved.
// Completion callbacks run after all tracks have advanced, in id order, so
// they may safely start new tracks.
func (a *Animator) Tick(dt time.Duration) int {
	if dt <= 0 || len(a.tracks) == 0 {
		return 0
	}
	ids := make([]string, 0, len(a.tracks))
	for id := range a.tracks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	type finished struct {
		at   Point
		done func(Point)
	}
	var completed []finished
	for _, id := range ids {
		t := a.tracks[id]
		t.elapsed += dt
		f := float64(t.elapsed) / float64(t.duration)
		if f >= 1 {
			t.current = t.to
			delete(a.tracks, id)
			completed = append(completed, finished{at: t.to, done: t.done})
			continue
		}
		e := easeInOut(f)
		t.current = Point{
			X: t.from.X + (t.to.X-t.from.X)*e,
			Y: t.from.Y + (t.to.Y-t.from.Y)*e,
		}
	}
	for _, c := range completed {
		if c.done != nil {
			c.done(c.at)
		}
	}
	return len(ids)
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
