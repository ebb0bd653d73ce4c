package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ancestree/ancestree/pkg/cache"
	"github.com/ancestree/ancestree/pkg/kin"
	"github.com/ancestree/ancestree/pkg/layout"
	"github.com/ancestree/ancestree/pkg/observability"
	"github.com/ancestree/ancestree/pkg/treejson"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Source, opts.Path)
	t, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	loadDur := time.Since(loadStart)
	personCount := 0
	if t != nil {
		personCount = len(t.People())
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, opts.Path, personCount, loadDur, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Tree = t
	result.Stats.LoadTime = loadDur
	result.Stats.PersonCount = len(t.People())
	result.Stats.MarriageCount = len(t.Marriages())
	result.CacheInfo.LoadHit = loadHit

	// Compute tree hash for cache keys and API responses
	if canonical, err := treejson.Canonical(t); err == nil {
		result.TreeHash = cache.Hash(canonical)
	}

	r.Logger.Info("loaded family tree",
		"people", result.Stats.PersonCount,
		"marriages", result.Stats.MarriageCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, result.Stats.PersonCount, result.Stats.MarriageCount)
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	layoutDur := time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, layoutDur, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = layoutDur
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"positions", len(res.PersonPositions),
		"connectors", len(res.Connectors),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the input with caching and returns cache hit info.
// The cached value is the canonical tree encoding, keyed by a hash of the
// raw source bytes, so edits to the source always miss.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*kin.Tree, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	t, raw, err := Load(opts)
	if err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.TreeKey(cache.Hash(raw), opts.TreeKeyOpts())

	// The load itself already happened (we need the raw bytes for the key),
	// so a "hit" here only reports that the source was seen before.
	if !opts.Refresh {
		if _, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "tree")
			return t, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	if data, err := treejson.Canonical(t); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, TTLTree); err == nil {
			observability.Cache().OnCacheSet(ctx, "tree", len(data))
		}
	}

	return t, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*kin.Tree, error) {
	t, _, err := r.LoadWithCacheInfo(ctx, opts)
	return t, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, t *kin.Tree, opts Options) (layout.Result, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	// Compute cache key from the canonical tree encoding
	canonical, err := treejson.Canonical(t)
	if err != nil {
		return layout.Result{}, false, fmt.Errorf("serialize tree for cache key: %w", err)
	}
	treeHash := cache.Hash(canonical)
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	// Try cache first
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	res := layout.Compute(t, opts.Spacing)

	// Cache the result
	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return res, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, t *kin.Tree, opts Options) (layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *kin.Tree, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	opts.SetLayoutDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := RenderFromLayout(ctx, t, res, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, t *kin.Tree, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
