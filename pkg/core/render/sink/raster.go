package sink

import (
	"bytes"
	"math"

	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/matzehuels/nestsquare/pkg/core/layout"
	"github.com/matzehuels/nestsquare/pkg/errors"
)

// RenderPNG rasterizes the layout. [WithScale] multiplies the 96 DPI base
// resolution.
func RenderPNG(l layout.Layout, opts ...Option) ([]byte, error) {
	s, err := buildScene(l, opts...)
	if err != nil {
		return nil, err
	}
	p, w, h := newPlot(s)

	dpi := int(math.Round(vgimg.DefaultDPI * s.r.scale))
	if dpi < 1 {
		dpi = 1
	}
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderPDF renders the layout as a single-page PDF.
func RenderPDF(l layout.Layout, opts ...Option) ([]byte, error) {
	return renderVector(l, "pdf", opts...)
}

// RenderEPS renders the layout as Encapsulated PostScript.
func RenderEPS(l layout.Layout, opts ...Option) ([]byte, error) {
	return renderVector(l, "eps", opts...)
}

func renderVector(l layout.Layout, format string, opts ...Option) ([]byte, error) {
	s, err := buildScene(l, opts...)
	if err != nil {
		return nil, err
	}
	p, w, h := newPlot(s)

	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s writer", format)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}
