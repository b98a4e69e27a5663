// Package cache provides byte-level caching for mindgrid's pipeline stages
// and HTTP clients.
//
// Backends:
//   - FileCache: filesystem cache for CLI usage
//   - RedisCache: shared cache for multi-instance API deployments
//   - NullCache: no-op cache for tests or --no-cache runs
//
// Keys are produced by a [Keyer] so that every pipeline stage (generated
// trees, layouts, rendered artifacts, raw HTTP responses) hashes its inputs
// consistently across CLI and API.
package cache

import (
	"context"
	"time"
)

// TTLs for the different cached value classes.
const (
	// TTLTree is how long generated mindmap trees are cached. Generation is
	// the expensive, quota-bounded stage, so trees keep the longest TTL.
	TTLTree = 7 * 24 * time.Hour

	// TTLLayout is how long computed layouts are cached.
	TTLLayout = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (SVG, PNG, ...) are cached.
	TTLArtifact = 24 * time.Hour

	// TTLHTTP is the default TTL for raw HTTP response caching.
	TTLHTTP = time.Hour
)

// Cache is the interface all cache backends implement.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TreeKeyOpts are the inputs that distinguish cached generated trees.
type TreeKeyOpts struct {
	Language string `json:"language"`
	Model    string `json:"model"`
}

// ArtifactKeyOpts are the inputs that distinguish cached rendered artifacts.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Theme  string  `json:"theme"`
	Scale  float64 `json:"scale"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// HTTPKey generates a key for raw HTTP response caching.
	HTTPKey(namespace, key string) string

	// TreeKey generates a key for a generated mindmap tree.
	TreeKey(prompt string, opts TreeKeyOpts) string

	// LayoutKey generates a key for a computed layout. treeHash is the
	// content hash of the clamped tree; layout itself is deterministic, so
	// the hash is the only input.
	LayoutKey(treeHash string) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer implementation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// TreeKey generates a key for a generated mindmap tree.
func (k *DefaultKeyer) TreeKey(prompt string, opts TreeKeyOpts) string {
	return hashKey("tree", prompt, opts)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(treeHash string) string {
	return hashKey("layout", treeHash)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
