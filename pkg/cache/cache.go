// Package cache provides pluggable byte caches for the layout pipeline.
//
// The pipeline caches three kinds of content: parsed tree snapshots, computed
// layouts, and rendered artifacts. Keys for each kind are generated by a
// Keyer so that every backend shares one key scheme; backends only store and
// retrieve opaque bytes.
//
// Available backends:
//   - FileCache: directory of JSON entries, used by the CLI
//   - RedisCache: shared cache for server deployments
//   - MongoCache: persistent cache with TTL eviction
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL support.
//
// Get returns the stored bytes and true on a hit; a miss is (nil, false, nil).
// Errors are reserved for backend failures, never for misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TreeKeyOpts distinguishes tree snapshots parsed from different sources.
type TreeKeyOpts struct {
	Source string `json:"source"` // "json", "csv"
}

// LayoutKeyOpts captures everything that changes a computed layout besides
// the tree content itself.
type LayoutKeyOpts struct {
	BoxWidth          float64 `json:"box_width"`
	BoxHeight         float64 `json:"box_height"`
	HorizontalGap     float64 `json:"horizontal_gap"`
	VerticalGap       float64 `json:"vertical_gap"`
	MarriageMarkerGap float64 `json:"marriage_marker_gap"`
	MarkerSize        float64 `json:"marker_size"`
	SoloMarkerOffset  float64 `json:"solo_marker_offset"`
	BandPaddingTop    float64 `json:"band_padding_top"`
	BandPaddingBottom float64 `json:"band_padding_bottom"`
	PixelsPerYear     float64 `json:"pixels_per_year"`
	YearBuffer        int     `json:"year_buffer"`
}

// ArtifactKeyOpts captures everything that changes a rendered artifact
// besides the layout it was rendered from.
type ArtifactKeyOpts struct {
	Format string `json:"format"` // "svg", "png", "dot", "json"
}

// Keyer generates cache keys for the pipeline stages. Implementations must
// be deterministic: equal inputs yield equal keys.
type Keyer interface {
	// TreeKey generates a key for a parsed tree snapshot, from the hash of
	// the raw source bytes.
	TreeKey(sourceHash string, opts TreeKeyOpts) string

	// LayoutKey generates a key for a computed layout, from the hash of the
	// canonical tree encoding.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, from the hash of
	// the canonical layout encoding.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a stage prefix plus a SHA-256
// hash over the content hash and the options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TreeKey generates a key for a parsed tree snapshot.
func (k *DefaultKeyer) TreeKey(sourceHash string, opts TreeKeyOpts) string {
	return hashKey("tree", sourceHash, opts)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
