package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nestsquare/pkg/cache"
	"github.com/matzehuels/nestsquare/pkg/core/layout"
	"github.com/matzehuels/nestsquare/pkg/dataset"
	"github.com/matzehuels/nestsquare/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger: it doesn't
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs layout and render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	result := &Result{}

	layoutStart := time.Now()
	l, s, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Series = s
	result.Layout = l
	result.Stats.Squares = l.Len()
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit
	if data, err := MarshalLayout(l); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"series", s.Name,
		"squares", l.Len(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, s, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo resolves the series and computes its layout,
// reporting whether the layout came from the cache.
//
// Values that are not ascending are accepted with a warning: the layout is
// still valid but labels of out-of-order values can overlap.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, opts Options) (layout.Layout, dataset.Series, bool, error) {
	r.applyLogger(&opts)
	s, err := opts.ValidateForLayout()
	if err != nil {
		return layout.Layout{}, dataset.Series{}, false, err
	}
	if !s.Sorted() {
		opts.Logger.Warn("values are not ascending; labels may overlap", "series", s.Name, "values", s.Values)
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(s.Values))
	start := time.Now()

	cacheKey := r.Keyer.LayoutKey(SeriesHash(s))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if l, err := UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				hooks.OnLayoutComplete(ctx, time.Since(start), nil)
				return l, s, true, nil
			}
		} else if err != nil {
			opts.Logger.Debug("layout cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, err := ComputeLayout(s)
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, dataset.Series{}, false, err
	}

	if data, err := MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		} else {
			opts.Logger.Debug("layout cache write failed", "err", err)
		}
	}
	return l, s, false, nil
}

// ComputeLayout is ComputeLayoutWithCacheInfo without the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, opts Options) (layout.Layout, dataset.Series, error) {
	l, s, _, err := r.ComputeLayoutWithCacheInfo(ctx, opts)
	return l, s, err
}

// RenderWithCacheInfo renders every requested format concurrently, reusing
// cached artifacts. The bool reports whether all formats were cache hits.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, s dataset.Series, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	colors, err := s.ResolvedColors()
	if err != nil {
		return nil, false, err
	}

	layoutData, err := MarshalLayout(l)
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)
	sinkOpts := opts.SinkOptions(s, colors)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var misses atomic.Int32
	artifacts, err := renderAll(ctx, opts.Formats, func(ctx context.Context, format string) ([]byte, error) {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, s, colors))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				return data, nil
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		misses.Add(1)

		data, err := RenderFormat(l, format, sinkOpts...)
		if err != nil {
			return nil, err
		}
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		} else {
			opts.Logger.Debug("artifact cache write failed", "format", format, "err", err)
		}
		opts.Logger.Debug("rendered format", "format", format, "bytes", len(data))
		return data, nil
	})
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, misses.Load() == 0, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, s dataset.Series, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, s, opts)
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
