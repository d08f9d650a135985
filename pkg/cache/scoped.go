package cache

// ScopedKeyer wraps a Keyer with a prefix so that several producers can
// share one backend without colliding. The analysis server scopes its keys
// this way, keeping results submitted over HTTP apart from CLI runs that
// point at the same Redis instance.
//
// Example usage:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// ResultKey generates a prefixed key for analysis results.
func (k *ScopedKeyer) ResultKey(matrixHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(matrixHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
