package cache

// ScopedKeyer prepends a fixed prefix to every key from an inner Keyer,
// so separate projects can share one cache backend without collisions.
// A redis instance serving several analysis projects gives each its own
// namespace:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "projectA:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

var _ Keyer = (*ScopedKeyer)(nil)

// NewScopedKeyer wraps inner with prefix. A nil inner falls back to the
// default key layout.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TrajectoryKey(matrixHash string, opts TrajectoryKeyOpts) string {
	return k.prefix + k.inner.TrajectoryKey(matrixHash, opts)
}

func (k *ScopedKeyer) RenderKey(matrixHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(matrixHash, opts)
}
