package cache

// ScopedKeyer prefixes every key of an inner [Keyer], so that several
// deployments can share one Redis without colliding.
//
//	keyer := cache.NewScopedKeyer(nil, "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DatasetKey returns the prefixed dataset key.
func (k *ScopedKeyer) DatasetKey(contentHash, variant string) string {
	return k.prefix + k.inner.DatasetKey(contentHash, variant)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(datasetKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetKey, opts)
}
