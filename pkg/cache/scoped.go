package cache

// ScopedKeyer prefixes every key from an inner Keyer. Shared backends use it
// so entries from this tool can be found and cleared without touching other
// data in the same store.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer falls back
// to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SceneKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) SceneKey(kind string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(kind, opts)
}
