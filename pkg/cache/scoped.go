package cache

// ScopedKeyer wraps a Keyer with a prefix, giving separate cache
// namespaces when several projects share one Redis instance.
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

// FieldKey generates a prefixed key for field caching.
func (k *ScopedKeyer) FieldKey(imageHash string, opts FieldKeyOpts) string {
	return k.prefix + k.inner.FieldKey(imageHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(imageHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(imageHash, opts)
}
