package sink

import (
	"github.com/matzehuels/nestsquare/pkg/errors"
)

// Text alignment values accepted by [TextOptions].
const (
	AlignLeft     = "left"
	AlignCenter   = "center"
	AlignRight    = "right"
	AlignTop      = "top"
	AlignBottom   = "bottom"
	AlignBaseline = "baseline"
)

const (
	// DefaultSize is the edge length of the unit square in pixels.
	DefaultSize = 480.0

	// DefaultGutter is the width of the label column left of the squares,
	// as a fraction of the unit square.
	DefaultGutter = 1.2

	// DefaultScale is the raster scale factor (1.0 = 96 DPI).
	DefaultScale = 1.0

	// defaultFontSize is in points.
	defaultFontSize = 14.0
)

// TextOptions controls how label text is drawn. FontSize is in points in
// every output format; sizes and gutters elsewhere are in pixels.
//
// The zero value means "not set"; use [DefaultTextOptions] for a complete
// value and [TextOptions.Merge] to apply caller overrides. TextOptions is a
// plain value: merging never mutates either operand.
type TextOptions struct {
	Color           string  `json:"color" toml:"color"`
	VerticalAlign   string  `json:"vertical_align" toml:"vertical_align"`
	HorizontalAlign string  `json:"horizontal_align" toml:"horizontal_align"`
	FontSize        float64 `json:"font_size" toml:"font_size"`
}

// DefaultTextOptions returns black, vertically centered, right-aligned 14pt text.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:           "black",
		VerticalAlign:   AlignCenter,
		HorizontalAlign: AlignRight,
		FontSize:        defaultFontSize,
	}
}

// Merge returns a copy of o with every non-zero field of override applied.
func (o TextOptions) Merge(override TextOptions) TextOptions {
	if override.Color != "" {
		o.Color = override.Color
	}
	if override.VerticalAlign != "" {
		o.VerticalAlign = override.VerticalAlign
	}
	if override.HorizontalAlign != "" {
		o.HorizontalAlign = override.HorizontalAlign
	}
	if override.FontSize != 0 {
		o.FontSize = override.FontSize
	}
	return o
}

// Validate checks alignment names and font size.
func (o TextOptions) Validate() error {
	switch o.HorizontalAlign {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		return errors.New(errors.ErrCodeInvalidAlignment, "invalid horizontal alignment %q (must be left, center or right)", o.HorizontalAlign)
	}
	switch o.VerticalAlign {
	case AlignTop, AlignCenter, AlignBottom, AlignBaseline:
	default:
		return errors.New(errors.ErrCodeInvalidAlignment, "invalid vertical alignment %q (must be top, center, bottom or baseline)", o.VerticalAlign)
	}
	if o.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %v", o.FontSize)
	}
	return nil
}

// Option configures a renderer.
type Option func(*renderer)

type renderer struct {
	colors []string
	title  string
	text   TextOptions
	size   float64
	gutter float64
	scale  float64
}

// WithColors sets the color series, one color per square in draw order.
func WithColors(colors []string) Option {
	return func(r *renderer) { r.colors = colors }
}

// WithTitle sets the figure title.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithText merges text overrides on top of the defaults.
func WithText(t TextOptions) Option {
	return func(r *renderer) { r.text = r.text.Merge(t) }
}

// WithSize sets the unit square edge length in pixels.
func WithSize(px float64) Option { return func(r *renderer) { r.size = px } }

// WithGutter sets the label column width relative to the unit square.
func WithGutter(g float64) Option { return func(r *renderer) { r.gutter = g } }

// WithScale sets the raster scale factor for PNG output.
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		text:   DefaultTextOptions(),
		size:   DefaultSize,
		gutter: DefaultGutter,
		scale:  DefaultScale,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r renderer) validate() error {
	if r.size <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size must be positive, got %v", r.size)
	}
	if r.gutter < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gutter must not be negative, got %v", r.gutter)
	}
	if r.scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", r.scale)
	}
	return r.text.Validate()
}
