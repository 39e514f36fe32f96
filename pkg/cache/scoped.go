package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving callers that
// share one backend separate namespaces. The display server uses it so its
// entries never collide with CLI renders in a shared Redis.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "show:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, falling back to DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(seriesHash string) string {
	return k.prefix + k.inner.LayoutKey(seriesHash)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
