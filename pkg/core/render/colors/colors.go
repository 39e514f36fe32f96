// Package colors resolves the color identifiers of a color series.
//
// Identifiers are CSS/SVG color names ("lightgrey", "darkgreen", ...) or hex
// strings ("#d3d3d3", "#ddd"). Names are looked up case-insensitively in
// golang.org/x/image/colornames, which covers every name the built-in flood
// presets use. Hex parsing is done by go-colorful.
package colors

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/nestsquare/pkg/errors"
)

// DefaultPalette is the fixed color list of the flood diagrams, outermost first.
var DefaultPalette = []string{"lightgrey", "lightgreen", "darkgreen", "grey", "orange", "red"}

// Palette returns a copy of the first n colors of DefaultPalette.
// It returns nil when n exceeds the palette length.
func Palette(n int) []string {
	if n < 0 || n > len(DefaultPalette) {
		return nil
	}
	return append([]string(nil), DefaultPalette[:n]...)
}

// Parse resolves a single color identifier.
func Parse(name string) (color.RGBA, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "empty color")
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(expandShortHex(s))
		if err != nil {
			return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid hex color %q", name)
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "unknown color %q", name)
}

// ParseSeries resolves every identifier of a color series, in order.
func ParseSeries(names []string) ([]color.RGBA, error) {
	out := make([]color.RGBA, len(names))
	for i, n := range names {
		c, err := Parse(n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Hex formats c as a lowercase "#rrggbb" string.
func Hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// Luminance returns the perceived lightness of c in [0, 1].
func Luminance(c color.Color) float64 {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return 0
	}
	l, _, _ := cf.Lab()
	return l
}

// expandShortHex turns "#abc" into "#aabbcc"; other input is returned as-is.
func expandShortHex(s string) string {
	if len(s) != 4 {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}
