// Package cache provides pluggable byte caching for pipeline stages.
//
// # Overview
//
// Three implementations cover the deployment modes:
//
//   - [FileCache]: directory-backed cache for CLI usage
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: no-op cache for tests and --no-cache runs
//
// All implementations store opaque byte slices with a per-entry TTL and
// are safe for concurrent use.
//
// # Keys
//
// A [Keyer] builds the cache keys for each pipeline stage: fetched source
// bytes, serialized documents, and rendered artifacts. Keys embed every
// input that affects the result, so changing a render format or a source
// document naturally misses the cache. Use [ScopedKeyer] to isolate key
// spaces between tenants or test runs.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// TTLs for the cached pipeline stages. Fetched documents can change at
// the source, so they expire daily. Documents and artifacts are keyed by
// content hash and never go stale; bounding their lifetime anyway keeps
// the cache dir small.
const (
	TTLFetch    = 24 * time.Hour
	TTLDocument = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values with per-entry expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and fresh; expired or missing entries are not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// DocumentKeyOpts carries the inputs that shape a serialized document.
type DocumentKeyOpts struct {
	Format string // input format name ("toml", "yaml")
}

// ArtifactKeyOpts carries the inputs that shape a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string // output format name ("dot", "svg")
	Detailed bool   // detailed node labels
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// FetchKey generates a key for raw bytes fetched from a URL.
	FetchKey(url string) string

	// DocumentKey generates a key for the serialized JSON of a decoded
	// document, keyed by the source content hash and decode options.
	DocumentKey(contentHash string, opts DocumentKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, keyed by the
	// serialized document hash and render options.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FetchKey generates a key for fetched source bytes.
func (k *DefaultKeyer) FetchKey(url string) string {
	return "fetch:" + url
}

// DocumentKey generates a key for a serialized document.
func (k *DefaultKeyer) DocumentKey(contentHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", contentHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", documentHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

// DefaultDir returns the default cache directory, ~/.cache/quill.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "quill"), nil
}
