package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The server uses it to give each client context a separate cache
// namespace while sharing one Redis instance.
//
// Example usage:
//
//	// Per-tenant keys behind the HTTP API
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
//
//	// Shared keys for the CLI
//	globalKeyer := NewDefaultKeyer()
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

// FetchKey generates a prefixed key for fetched source bytes.
func (k *ScopedKeyer) FetchKey(url string) string {
	return k.prefix + k.inner.FetchKey(url)
}

// DocumentKey generates a prefixed key for a serialized document.
func (k *ScopedKeyer) DocumentKey(contentHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(contentHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(documentHash, opts)
}
