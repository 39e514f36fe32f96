package sink

import (
	"image/color"
	"sync"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/nestsquare/pkg/core/layout"
)

// pxToPt converts CSS pixels (96 DPI) to points.
const pxToPt = 72.0 / 96.0

// titleWeight names the bold Sans face in the font cache. The PDF canvas
// embeds every face under an empty style but selects WeightBold faces with
// style "B", so the bold face is registered again under this weight.
const titleWeight = xfont.WeightSemiBold

var registerTitleFace sync.Once

// titleFont returns the bold Sans title font at the given size.
func titleFont(size vg.Length) font.Font {
	registerTitleFace.Do(func() {
		for _, f := range liberation.Collection() {
			if f.Font.Variant == "Sans" && f.Font.Weight == xfont.WeightBold && f.Font.Style == xfont.StyleNormal {
				f.Font.Weight = titleWeight
				font.DefaultCache.Add(font.Collection{f})
			}
		}
	})
	fnt := sansFont(size)
	fnt.Weight = titleWeight
	return fnt
}

// sansFont returns the regular Sans font at the given size.
func sansFont(size vg.Length) font.Font {
	sans := plot.DefaultFont
	sans.Variant = "Sans"
	return font.From(sans, size)
}

// NestedSquares is a gonum plotter that draws a nested-square layout.
//
// It implements plot.Plotter and plot.DataRanger, so it can be added to any
// *plot.Plot. Fills[k] paints Layout.Squares[k].
type NestedSquares struct {
	Layout layout.Layout
	Fills  []color.Color
	Text   text.Style
}

// Plot implements plot.Plotter.
func (ns *NestedSquares) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for k, sq := range ns.Layout.Squares {
		if k >= len(ns.Fills) {
			break
		}
		x0, y0, x1, y1 := sq.Bounds()
		c.FillPolygon(ns.Fills[k], []vg.Point{
			{X: trX(x0), Y: trY(y0)},
			{X: trX(x1), Y: trY(y0)},
			{X: trX(x1), Y: trY(y1)},
			{X: trX(x0), Y: trY(y1)},
		})
	}
	for _, p := range ns.Layout.Placements {
		c.FillText(ns.Text, vg.Point{X: trX(p.X), Y: trY(p.Y)}, p.Text)
	}
}

// DataRange implements plot.DataRanger.
func (ns *NestedSquares) DataRange() (xmin, xmax, ymin, ymax float64) {
	return ns.Layout.Extent()
}

// newPlot builds a titled, axis-free plot holding the layout, and returns
// the canvas size that keeps squares approximately square.
func newPlot(s scene) (*plot.Plot, vg.Length, vg.Length) {
	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.White

	if s.r.title != "" {
		p.Title.Text = s.r.title
		p.Title.TextStyle.Font = titleFont(vg.Length(s.r.text.FontSize * titleScale))
	}

	fills := make([]color.Color, len(s.fills))
	for i, c := range s.fills {
		fills[i] = c
	}
	ns := &NestedSquares{
		Layout: s.layout,
		Fills:  fills,
		Text: text.Style{
			Color:   s.textColor,
			Font:    sansFont(vg.Length(s.r.text.FontSize)),
			XAlign:  plotXAlign(s.r.text.HorizontalAlign),
			YAlign:  plotYAlign(s.r.text.VerticalAlign),
			Handler: plot.DefaultTextHandler,
		},
	}
	p.Add(ns)

	span := s.span()
	p.X.Min = -s.r.gutter * span
	p.X.Max = span
	p.Y.Min = 0
	p.Y.Max = span

	w := vg.Length((s.r.size*(1+s.r.gutter) + 2*svgMargin) * pxToPt)
	h := vg.Length((s.r.size + s.titleHeight() + 2*svgMargin) * pxToPt)
	return p, w, h
}

func plotXAlign(a string) text.XAlignment {
	switch a {
	case AlignLeft:
		return text.XLeft
	case AlignCenter:
		return text.XCenter
	default:
		return text.XRight
	}
}

func plotYAlign(a string) text.YAlignment {
	switch a {
	case AlignTop:
		return text.YTop
	case AlignBottom, AlignBaseline:
		return text.YBottom
	default:
		return text.YCenter
	}
}
