// Package dataset holds value series and the built-in flood presets.
//
// A [Series] bundles everything one diagram needs: values, optional labels,
// colors and a title. Series are plain values; [Preset] hands out deep copies
// so callers may modify what they receive.
package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/nestsquare/pkg/core/layout"
	"github.com/matzehuels/nestsquare/pkg/core/render/colors"
	"github.com/matzehuels/nestsquare/pkg/errors"
)

// Series is one diagram's data.
type Series struct {
	Name   string    `json:"name,omitempty"`
	Title  string    `json:"title,omitempty"`
	Values []float64 `json:"values"`
	Labels []string  `json:"labels,omitempty"`
	Colors []string  `json:"colors,omitempty"`
}

// Validate applies the layout input rules and the label content rules.
// Colors are only needed for drawing and are checked by [Series.ResolvedColors].
func (s Series) Validate() error {
	if err := layout.Validate(s.Values, s.Labels); err != nil {
		return err
	}
	for _, l := range s.Labels {
		if err := errors.ValidateLabel(l); err != nil {
			return err
		}
	}
	return nil
}

// Sorted reports whether values are non-decreasing.
func (s Series) Sorted() bool { return layout.Ascending(s.Values) }

// ResolvedColors returns the series colors, falling back to the leading
// entries of the default palette when none are set.
func (s Series) ResolvedColors() ([]string, error) {
	n := len(s.Values)
	if s.Colors != nil {
		if len(s.Colors) != n {
			return nil, errors.New(errors.ErrCodeLengthMismatch, "got %d colors for %d values", len(s.Colors), n)
		}
		return slices.Clone(s.Colors), nil
	}
	p := colors.Palette(n)
	if p == nil {
		return nil, errors.New(errors.ErrCodeLengthMismatch,
			"default palette has %d colors, series has %d values; pass colors explicitly", len(colors.DefaultPalette), n)
	}
	return p, nil
}

// Clone returns a deep copy of s.
func (s Series) Clone() Series {
	s.Values = slices.Clone(s.Values)
	s.Labels = slices.Clone(s.Labels)
	s.Colors = slices.Clone(s.Colors)
	return s
}

// ParseValues parses a comma separated list of numbers such as "1,2.3,100".
func ParseValues(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no values given")
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "value %d: cannot parse %q", i, strings.TrimSpace(p))
		}
		out = append(out, v)
	}
	return out, nil
}

// PercentLabel formats a class name and its share: "Other (1.0%)".
// Shares of 100 or more are printed without decimals: "Total Area (100%)".
func PercentLabel(name string, value float64) string {
	if value >= 100 {
		return fmt.Sprintf("%s (%.0f%%)", name, value)
	}
	return fmt.Sprintf("%s (%.1f%%)", name, value)
}
