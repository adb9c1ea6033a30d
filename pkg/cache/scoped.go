package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or
// rosters can share one backend without colliding.
//
// Example usage:
//
//	// Keys for the staging roster
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//
//	// Keys for the built-in demo network
//	demo := NewScopedKeyer(NewDefaultKeyer(), "demo:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(rosterHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(rosterHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
