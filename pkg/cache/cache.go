// Package cache stores computed scenes so repeated runs with the same
// parameters skip placement and relaxation.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI default)
//   - [RedisCache]: shared cache addressed by a redis:// URL
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// A [Keyer] turns scene parameters into a stable key. [DefaultKeyer] hashes
// the parameters as JSON with SHA-256; [ScopedKeyer] prepends a namespace.
package cache

import (
	"context"
	"time"
)

// TTLScene is how long computed scenes are kept.
const TTLScene = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// SceneKeyOpts are the inputs that determine a scene.
type SceneKeyOpts struct {
	Seed      uint64  `json:"seed"`
	BoxLength float64 `json:"box_length"`
	Fraction  float64 `json:"fraction"`
	Strategy  string  `json:"strategy"`
	// Params holds the kind-specific parameters and is hashed as JSON.
	Params any `json:"params"`
}

// Keyer generates cache keys.
type Keyer interface {
	SceneKey(kind string, opts SceneKeyOpts) string
}

// keyVersion is bumped whenever the scene layout algorithm changes output.
const keyVersion = "v1"

// DefaultKeyer hashes scene parameters into "scene:<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SceneKey returns the key for a scene of the given kind.
func (DefaultKeyer) SceneKey(kind string, opts SceneKeyOpts) string {
	return hashKey("scene:"+kind, keyVersion, opts)
}
