package sink

import (
	"image/color"

	"github.com/matzehuels/nestsquare/pkg/core/layout"
	"github.com/matzehuels/nestsquare/pkg/core/render/colors"
	"github.com/matzehuels/nestsquare/pkg/errors"
)

// titleScale sizes the title relative to the label font.
const titleScale = 1.2

// scene is a validated layout with resolved colors, shared by all sinks.
type scene struct {
	layout    layout.Layout
	fills     []color.RGBA // fills[k] paints layout.Squares[k]
	textColor color.RGBA
	r         renderer
}

func buildScene(l layout.Layout, opts ...Option) (scene, error) {
	r := newRenderer(opts...)
	if err := r.validate(); err != nil {
		return scene{}, err
	}
	if l.Len() == 0 {
		return scene{}, errors.New(errors.ErrCodeInvalidInput, "layout has no squares")
	}
	if len(r.colors) != l.Len() {
		return scene{}, errors.New(errors.ErrCodeLengthMismatch, "got %d colors for %d squares", len(r.colors), l.Len())
	}
	fills, err := colors.ParseSeries(r.colors)
	if err != nil {
		return scene{}, err
	}
	textColor, err := colors.Parse(r.text.Color)
	if err != nil {
		return scene{}, err
	}
	return scene{layout: l, fills: fills, textColor: textColor, r: r}, nil
}

// span is the data-space edge length of the outermost square.
func (s scene) span() float64 {
	_, xmax, _, _ := s.layout.Extent()
	if xmax <= 0 {
		return 1
	}
	return xmax
}

// titleHeight is the pixel height reserved above the squares.
func (s scene) titleHeight() float64 {
	if s.r.title == "" {
		return 0
	}
	return s.r.text.FontSize / pxToPt * 2.5
}
