package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/nestsquare/pkg/cache"
	"github.com/matzehuels/nestsquare/pkg/core/layout"
	"github.com/matzehuels/nestsquare/pkg/dataset"
	"github.com/matzehuels/nestsquare/pkg/errors"
)

// ComputeLayout computes the geometry of a series without caching.
func ComputeLayout(s dataset.Series) (layout.Layout, error) {
	return layout.Compute(s.Values, s.Labels)
}

// SeriesHash identifies the layout inputs of a series. Colors and title do
// not affect geometry and are left out.
func SeriesHash(s dataset.Series) string {
	h, _ := cache.HashJSON(struct {
		Values []float64 `json:"values"`
		Labels []string  `json:"labels"`
	}{s.Values, s.Labels})
	return h
}

// MarshalLayout serializes a layout for caching.
func MarshalLayout(l layout.Layout) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout")
	}
	return data, nil
}

// UnmarshalLayout restores a layout written by MarshalLayout.
func UnmarshalLayout(data []byte) (layout.Layout, error) {
	var l layout.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return layout.Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "parse layout")
	}
	if l.Len() == 0 {
		return layout.Layout{}, errors.New(errors.ErrCodeInternal, "parse layout: no squares")
	}
	return l, nil
}
