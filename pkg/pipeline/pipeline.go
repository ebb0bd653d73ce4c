// Package pipeline provides the core visualization pipeline for Ancestree.
//
// This package implements the complete load → layout → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read people and marriages from a JSON document or a CSV directory
//  2. Layout: Compute box positions, marriage markers, connectors, and bands
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage result is cached under a content-derived key.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  pipeline.SourceJSON,
//	    Path:    "family.json",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	t, err := runner.Load(ctx, opts)
//
//	// Layout with an existing tree
//	res, err := runner.ComputeLayout(ctx, t, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, t, res, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ancestree/ancestree/pkg/cache"
	"github.com/ancestree/ancestree/pkg/kin"
	"github.com/ancestree/ancestree/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultPNGScale is the default raster scale factor for PNG output.
const DefaultPNGScale = 2.0

// Source constants for input formats.
const (
	SourceJSON = "json"
	SourceCSV  = "csv"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidSources is the set of supported input sources.
var ValidSources = map[string]bool{
	SourceJSON: true,
	SourceCSV:  true,
}

// Cache TTLs per pipeline stage. Every stage key is derived from the stage's
// input content, so entries never go stale - the TTL just bounds storage.
const (
	TTLTree     = 7 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source  string `json:"source,omitempty"` // "json" or "csv"
	Path    string `json:"path,omitempty"`   // JSON file, or directory holding the CSV pair
	Data    []byte `json:"data,omitempty"`   // inline JSON document, used when Path is empty
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options. Zero fields fall back to the standard spacing.
	Spacing layout.Spacing `json:"spacing"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	NoBands   bool     `json:"no_bands,omitempty"`
	YearRuler bool     `json:"year_ruler,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"` // DOT labels include life spans
	PNGScale  float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the loaded family tree.
	Tree *kin.Tree

	// TreeHash is the content hash of the canonical tree encoding.
	TreeHash string

	// Layout contains the computed geometry.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PersonCount   int
	MarriageCount int
	LoadTime      time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the parsed tree came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSource checks that an input source is valid.
func ValidateSource(source string) error {
	if !ValidSources[source] {
		return fmt.Errorf("invalid source: %q (must be one of: json, csv)", source)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		o.Source = SourceJSON
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Path == "" && len(o.Data) == 0 {
		return fmt.Errorf("path or data is required")
	}
	if o.Source == SourceCSV && o.Path == "" {
		return fmt.Errorf("path is required for csv input")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults fills zero spacing fields from the standard spacing.
func (o *Options) SetLayoutDefaults() {
	def := layout.DefaultSpacing()
	if o.Spacing.BoxWidth == 0 {
		o.Spacing.BoxWidth = def.BoxWidth
	}
	if o.Spacing.BoxHeight == 0 {
		o.Spacing.BoxHeight = def.BoxHeight
	}
	if o.Spacing.HorizontalGap == 0 {
		o.Spacing.HorizontalGap = def.HorizontalGap
	}
	if o.Spacing.MarriageMarkerGap == 0 {
		o.Spacing.MarriageMarkerGap = def.MarriageMarkerGap
	}
	if o.Spacing.VerticalGap == 0 {
		o.Spacing.VerticalGap = def.VerticalGap
	}
	if o.Spacing.MarkerSize == 0 {
		o.Spacing.MarkerSize = def.MarkerSize
	}
	if o.Spacing.SoloMarkerOffset == 0 {
		o.Spacing.SoloMarkerOffset = def.SoloMarkerOffset
	}
	if o.Spacing.BandPaddingTop == 0 {
		o.Spacing.BandPaddingTop = def.BandPaddingTop
	}
	if o.Spacing.BandPaddingBottom == 0 {
		o.Spacing.BandPaddingBottom = def.BandPaddingBottom
	}
	if o.Spacing.PixelsPerYear == 0 {
		o.Spacing.PixelsPerYear = def.PixelsPerYear
	}
	if o.Spacing.YearBuffer == 0 {
		o.Spacing.YearBuffer = def.YearBuffer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// TreeKeyOpts returns cache key options for the load stage.
func (o *Options) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{
		Source: o.Source,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		BoxWidth:          o.Spacing.BoxWidth,
		BoxHeight:         o.Spacing.BoxHeight,
		HorizontalGap:     o.Spacing.HorizontalGap,
		VerticalGap:       o.Spacing.VerticalGap,
		MarriageMarkerGap: o.Spacing.MarriageMarkerGap,
		MarkerSize:        o.Spacing.MarkerSize,
		SoloMarkerOffset:  o.Spacing.SoloMarkerOffset,
		BandPaddingTop:    o.Spacing.BandPaddingTop,
		BandPaddingBottom: o.Spacing.BandPaddingBottom,
		PixelsPerYear:     o.Spacing.PixelsPerYear,
		YearBuffer:        o.Spacing.YearBuffer,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
	}
}
