// Package session persists interactive graph sessions so they survive
// reconnects and server restarts.
//
// A session is one viewer's view of the graph: the focal entity, the
// viewport, the selected node and the nodes the viewer dragged and pinned.
// The live interaction state is owned by the server; this package stores
// the [Snapshot] needed to rebuild it, with an expiry.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: JSON files in a directory, for `tava serve` on one machine
//   - [CacheStore]: any [cache.Cache], e.g. Redis for multi-instance servers
//
// # Usage
//
//	snap := session.New("local-current-user", 390, 844, session.DefaultTTL)
//	store.Set(ctx, snap)
//
//	snap, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if snap == nil {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tavalabs/tava/pkg/ringgraph"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Snapshot is the persisted state of one interactive session.
type Snapshot struct {
	ID        string                     `json:"id"`
	Focal     string                     `json:"focal"`
	Width     float64                    `json:"width"`
	Height    float64                    `json:"height"`
	Selected  string                     `json:"selected,omitempty"`
	Pins      map[string]ringgraph.Point `json:"pins,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	ExpiresAt time.Time                  `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Snapshot) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch pushes the expiry ttl into the future.
func (s *Snapshot) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Viewport returns the session's canvas space.
func (s *Snapshot) Viewport() ringgraph.Viewport {
	return ringgraph.Viewport{Width: s.Width, Height: s.Height}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Set stores a session.
	Set(ctx context.Context, s *Snapshot) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op where the backend
	// expires entries itself).
	Cleanup(ctx context.Context) error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// New creates a session for focal with nothing selected.
func New(focal string, width, height float64, ttl time.Duration) *Snapshot {
	now := time.Now()
	return &Snapshot{
		ID:        NewID(),
		Focal:     focal,
		Width:     width,
		Height:    height,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Capture records the interaction state of ix into s.
func (s *Snapshot) Capture(ix *ringgraph.Interaction) {
	s.Selected = ix.Selected()
	s.Pins = ix.Pins()
	if len(s.Pins) == 0 {
		s.Pins = nil
	}
}

// Apply restores the selection and pins of s onto ix.
func (s *Snapshot) Apply(ix *ringgraph.Interaction) {
	ix.Restore(s.Selected, s.Pins)
}
