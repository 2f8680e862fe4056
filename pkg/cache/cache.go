// Package cache stores rendered artifacts and parsed datasets between runs.
//
// Three backends implement [Cache]:
//
//   - [NullCache] never stores anything (--no-cache, tests)
//   - [FileCache] keeps entries as files under a directory (CLI default)
//   - [RedisCache] shares entries between server instances
//
// [New] picks a backend from a cache URL:
//
//	c, err := cache.New(ctx, "redis://localhost:6379/0", "")
//	c, err := cache.New(ctx, "", "/home/me/.cache/scatter-svg")
//	c, err := cache.New(ctx, cache.URLNone, "")
//
// Keys come from a [Keyer] so that callers never hand-build them.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// URLNone disables caching.
const URLNone = "none"

// New opens the backend selected by url. An empty url opens a file cache in
// dir; URLNone returns a [NullCache]; redis:// and rediss:// URLs open a
// [RedisCache].
func New(ctx context.Context, url, dir string) (Cache, error) {
	switch {
	case url == URLNone:
		return NewNullCache(), nil
	case url == "":
		if dir == "" {
			return nil, fmt.Errorf("cache: no directory for file cache")
		}
		return NewFileCache(dir)
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedisCache(ctx, url)
	default:
		return nil, fmt.Errorf("cache: unsupported url %q", url)
	}
}

// =============================================================================
// Keys
// =============================================================================

// Keyer builds cache keys.
type Keyer interface {
	// DatasetKey keys a parsed dataset by the hash of its source bytes and
	// the parse variant: the detected format plus anything else the parser
	// takes from the source name, such as a tabular delimiter.
	DatasetKey(contentHash, variant string) string

	// ArtifactKey keys a rendered artifact by its dataset key and everything
	// that affects the output bytes.
	ArtifactKey(datasetKey string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Style    string  `json:"style"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	DPI      int     `json:"dpi"`
	FontSize float64 `json:"font_size"`
	Title    string  `json:"title,omitempty"`
	XLabel   string  `json:"xlabel,omitempty"`
	YLabel   string  `json:"ylabel,omitempty"`

	PointExpansion [2]float64 `json:"point_expansion"`
	TextExpansion  [2]float64 `json:"text_expansion"`
	PointForce     float64    `json:"point_force"`
	TextForce      float64    `json:"text_force"`
	MaxIterations  int        `json:"max_iterations"`
	AnchorPull     float64    `json:"anchor_pull"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey returns "dataset:<variant>:<hash>".
func (DefaultKeyer) DatasetKey(contentHash, variant string) string {
	return "dataset:" + variant + ":" + contentHash
}

// ArtifactKey returns "artifact:<sha256 of dataset key and opts>".
func (DefaultKeyer) ArtifactKey(datasetKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetKey, opts)
}
