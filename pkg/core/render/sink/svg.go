package sink

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/nestsquare/pkg/core/layout"
	"github.com/matzehuels/nestsquare/pkg/core/render/colors"
)

const svgMargin = 10.0

const squareInteractionCSS = `
    .square { transition: opacity 0.2s ease; }
    .square.dim { opacity: 0.45; }
    .label { transition: transform 0.2s ease; transform-origin: right center; transform-box: fill-box; }
    .label.highlight { transform: scale(1.08); font-weight: bold; }`

const squareInteractionJS = `
    function highlight(idx) {
      document.querySelectorAll('.square').forEach(s => s.classList.toggle('dim', s.dataset.index !== idx));
      document.querySelectorAll('.label').forEach(t => t.classList.toggle('highlight', t.dataset.index === idx));
    }
    function clearHighlight() {
      document.querySelectorAll('.square, .label').forEach(el => el.classList.remove('dim', 'highlight'));
    }
    document.querySelectorAll('.square, .label').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.index));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// RenderSVG draws the layout as an SVG document with hover highlighting.
//
// Squares are emitted largest first so smaller squares paint over larger
// ones. Each label shares a data-index attribute with its square.
func RenderSVG(l layout.Layout, opts ...Option) ([]byte, error) {
	s, err := buildScene(l, opts...)
	if err != nil {
		return nil, err
	}

	f := newFrame(s)
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(f.width, f.height)
	if s.r.title != "" {
		canvas.Title(s.r.title)
	}
	canvas.Style("text/css", squareInteractionCSS)
	canvas.Rect(0, 0, f.width, f.height, "fill:white")

	if s.r.title != "" {
		canvas.Text(f.width/2, round(svgMargin+s.titleHeight()/2), s.r.title,
			`dominant-baseline="central"`,
			fmt.Sprintf("text-anchor:middle;font-weight:bold;font-family:sans-serif;font-size:%gpt", s.r.text.FontSize*titleScale))
	}

	for k, sq := range l.Squares {
		x0, _, x1, y1 := sq.Bounds()
		canvas.Rect(f.x(x0), f.y(y1), f.length(x1-x0), f.length(sq.Side),
			fmt.Sprintf(`id="square-%d"`, sq.Index),
			`class="square"`,
			fmt.Sprintf(`data-index="%d"`, sq.Index),
			"fill:"+colors.Hex(s.fills[k])+";stroke:none")
	}

	anchor, baseline := svgAlign(s.r.text)
	for i, p := range l.Placements {
		canvas.Text(f.x(p.X), f.y(p.Y), p.Text,
			`class="label"`,
			fmt.Sprintf(`data-index="%d"`, i),
			fmt.Sprintf(`dominant-baseline="%s"`, baseline),
			fmt.Sprintf("text-anchor:%s;fill:%s;font-family:sans-serif;font-size:%gpt",
				anchor, colors.Hex(s.textColor), s.r.text.FontSize))
	}

	canvas.Script("text/javascript", squareInteractionJS)
	canvas.End()
	return buf.Bytes(), nil
}

// frame maps data coordinates onto integer SVG pixels.
type frame struct {
	unit          float64 // pixels per data unit
	left, top     float64 // pixel offset of data point (0, span)
	span          float64
	width, height int
}

func newFrame(s scene) frame {
	span := s.span()
	unit := s.r.size / span
	gutter := s.r.gutter * s.r.size
	return frame{
		unit:   unit,
		left:   svgMargin + gutter,
		top:    svgMargin + s.titleHeight(),
		span:   span,
		width:  round(2*svgMargin + gutter + s.r.size),
		height: round(2*svgMargin + s.titleHeight() + s.r.size),
	}
}

func (f frame) x(v float64) int      { return round(f.left + v*f.unit) }
func (f frame) y(v float64) int      { return round(f.top + (f.span-v)*f.unit) }
func (f frame) length(v float64) int { return round(v * f.unit) }

func round(v float64) int { return int(math.Round(v)) }

func svgAlign(t TextOptions) (anchor, baseline string) {
	switch t.HorizontalAlign {
	case AlignLeft:
		anchor = "start"
	case AlignCenter:
		anchor = "middle"
	default:
		anchor = "end"
	}
	switch t.VerticalAlign {
	case AlignTop:
		baseline = "hanging"
	case AlignBottom:
		baseline = "text-after-edge"
	case AlignBaseline:
		baseline = "alphabetic"
	default:
		baseline = "central"
	}
	return anchor, baseline
}
