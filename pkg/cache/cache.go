// Package cache stores computed layouts and rendered artifacts keyed by
// content hash.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// server, [NullCache] when caching is disabled. Keys come from a [Keyer] so
// callers never build key strings by hand.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry type.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Key types reported to cache hooks.
const (
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
	KeyTypeSession  = "session"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the roster with rosterHash.
	LayoutKey(rosterHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendering of the layout with layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the roster that change a layout.
type LayoutKeyOpts struct {
	Focal      string  `json:"focal"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ParamsHash string  `json:"params_hash"`
	Selected   string  `json:"selected,omitempty"`
}

// ArtifactKeyOpts are the inputs besides the layout that change a rendering.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Selected   string `json:"selected,omitempty"`
	Labels     bool   `json:"labels"`
	Connectors bool   `json:"connectors"`
	Title      string `json:"title,omitempty"`
}

// DefaultKeyer hashes every key component into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (k *DefaultKeyer) LayoutKey(rosterHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, rosterHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, layoutHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
