// Package pipeline runs the series → layout → render pipeline for nestsquare.
//
// The CLI and the display server both go through this package so that
// defaults, validation and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: resolve the series (preset or inline values) and compute the
//     nested-square geometry
//  2. Render: produce one artifact per requested format (SVG, PNG, PDF, EPS,
//     JSON), concurrently
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Preset:  "flood-2021",
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run stages individually:
//
//	l, series, err := runner.ComputeLayout(ctx, opts)
//	artifacts, err := runner.Render(ctx, l, series, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nestsquare/pkg/cache"
	"github.com/matzehuels/nestsquare/pkg/core/layout"
	"github.com/matzehuels/nestsquare/pkg/core/render/sink"
	"github.com/matzehuels/nestsquare/pkg/dataset"
	"github.com/matzehuels/nestsquare/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSize is the unit square edge length in pixels.
	DefaultSize = sink.DefaultSize

	// DefaultGutter is the label column width relative to the unit square.
	DefaultGutter = sink.DefaultGutter

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatEPS  = "eps"
	FormatJSON = "json"
)

// Formats lists the supported output formats in a stable order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatEPS, FormatJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatEPS:  true,
	FormatJSON: true,
}

// ContentTypes maps formats to HTTP content types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatEPS:  "application/postscript",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
//
// Either Preset or Values selects the data. Labels, Colors and Title
// override the preset's own when set; with inline Values they are used as
// given (nil Labels means an unlabeled diagram).
type Options struct {
	// Data
	Preset string    `json:"preset,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Colors []string  `json:"colors,omitempty"`
	Title  string    `json:"title,omitempty"`

	// Render
	Formats []string         `json:"formats,omitempty"`
	Size    float64          `json:"size,omitempty"`
	Gutter  float64          `json:"gutter,omitempty"`
	Scale   float64          `json:"scale,omitempty"`
	Text    sink.TextOptions `json:"text,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Series     dataset.Series
	Layout     layout.Layout
	LayoutHash string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Squares    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, eps, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// Series resolves the data selected by the options.
func (o *Options) Series() (dataset.Series, error) {
	if o.Preset != "" && o.Values != nil {
		return dataset.Series{}, errors.New(errors.ErrCodeInvalidInput, "use either a preset or inline values, not both")
	}

	var s dataset.Series
	if o.Values != nil {
		s = dataset.Series{Name: "custom", Values: slices.Clone(o.Values)}
	} else {
		name := o.Preset
		if name == "" {
			name = dataset.DefaultPreset
		}
		p, err := dataset.Preset(name)
		if err != nil {
			return dataset.Series{}, err
		}
		s = p
	}

	if o.Labels != nil {
		s.Labels = slices.Clone(o.Labels)
	}
	if o.Colors != nil {
		s.Colors = slices.Clone(o.Colors)
	}
	if o.Title != "" {
		s.Title = o.Title
	}
	return s, nil
}

// SetLayoutDefaults sets defaults needed by the layout stage.
func (o *Options) SetLayoutDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout resolves and validates the series.
func (o *Options) ValidateForLayout() (dataset.Series, error) {
	o.SetLayoutDefaults()
	s, err := o.Series()
	if err != nil {
		return dataset.Series{}, err
	}
	if err := s.Validate(); err != nil {
		return dataset.Series{}, err
	}
	return s, nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Gutter == 0 {
		o.Gutter = DefaultGutter
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates them.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	if o.Size < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size must be positive, got %v", o.Size)
	}
	if o.Gutter < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gutter must not be negative, got %v", o.Gutter)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return o.TextOptions().Validate()
}

// TextOptions returns the default text options merged with o.Text.
func (o *Options) TextOptions() sink.TextOptions {
	return sink.DefaultTextOptions().Merge(o.Text)
}

// SinkOptions builds renderer options for a resolved series.
func (o *Options) SinkOptions(s dataset.Series, colors []string) []sink.Option {
	return []sink.Option{
		sink.WithColors(colors),
		sink.WithTitle(s.Title),
		sink.WithText(o.Text),
		sink.WithSize(o.Size),
		sink.WithGutter(o.Gutter),
		sink.WithScale(o.Scale),
	}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string, s dataset.Series, colors []string) cache.ArtifactKeyOpts {
	text := o.TextOptions()
	opts := cache.ArtifactKeyOpts{
		Format:          format,
		Title:           s.Title,
		Colors:          colors,
		TextColor:       text.Color,
		VerticalAlign:   text.VerticalAlign,
		HorizontalAlign: text.HorizontalAlign,
		FontSize:        text.FontSize,
		Size:            o.Size,
		Gutter:          o.Gutter,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
