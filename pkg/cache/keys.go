package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// BuildKeyOpts captures every option that changes a built component.
// Two builds with equal cell name and equal opts produce the same
// component, so they share a cache entry.
type BuildKeyOpts struct {
	Pad         string   `json:"pad,omitempty"`
	Spacing     float64  `json:"spacing,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	Layer       string   `json:"layer,omitempty"`
	PortNames   []string `json:"port_names,omitempty"`
	Name        string   `json:"name,omitempty"`
	Stack       string   `json:"stack,omitempty"`
	NoPads      bool     `json:"no_pads,omitempty"`
}

// ArtifactKeyOpts captures every option that changes an exported
// artifact beyond the built component itself.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Stack  string  `json:"stack,omitempty"`
	Labels bool    `json:"labels,omitempty"`
}

// Keyer derives cache keys for the two pipeline stages. Implementations
// must be deterministic: equal inputs must map to equal keys across
// processes, or shared backends lose their point.
type Keyer interface {
	// BuildKey keys a built component by cell name and build options.
	BuildKey(cell string, opts BuildKeyOpts) string

	// ArtifactKey keys an exported artifact by the hash of the built
	// component plus the export options.
	ArtifactKey(buildHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the option structs into fixed-width keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// BuildKey generates a key for built component caching.
func (k *DefaultKeyer) BuildKey(cell string, opts BuildKeyOpts) string {
	return hashKey("build", cell, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(buildHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", buildHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so multiple tenants or test
// runs can share one backend without key collisions.
//
// Example usage:
//
//	// Per-user keys on a shared Redis
//	userKeyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "user:abc123:")
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

// BuildKey generates a prefixed key for built component caching.
func (k *ScopedKeyer) BuildKey(cell string, opts BuildKeyOpts) string {
	return k.prefix + k.inner.BuildKey(cell, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(buildHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(buildHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
