package dataset

import (
	"maps"
	"slices"

	"github.com/matzehuels/nestsquare/pkg/core/render/colors"
	"github.com/matzehuels/nestsquare/pkg/errors"
)

// Land-cover class names used by the flood presets.
const (
	ClassOther      = "Other"
	ClassArtificial = "Artificial Surface"
	ClassBareSoil   = "Natural Bare Soil"
	ClassNaturalVeg = "Natural Terrestrial Vegetation"
	ClassCultivated = "Cultivated Terrestrial Vegetation"
	ClassTotal      = "Total Area"
)

type class struct {
	name  string
	share float64
}

func floodSeries(name, title string, classes ...class) Series {
	s := Series{Name: name, Title: title}
	for _, c := range classes {
		s.Values = append(s.Values, c.share)
		s.Labels = append(s.Labels, PercentLabel(c.name, c.share))
	}
	s.Colors = colors.Palette(len(classes))
	return s
}

var presets = map[string]Series{
	"flood-1in500": floodSeries("flood-1in500",
		"Affected Landcover Classes in a 1 of 500 Chance per Year Flood [%]",
		class{ClassOther, 1},
		class{ClassArtificial, 2.3},
		class{ClassBareSoil, 4},
		class{ClassNaturalVeg, 44.2},
		class{ClassCultivated, 48.5},
		class{ClassTotal, 100},
	),
	"flood-1in5": floodSeries("flood-1in5",
		"Affected Landcover Classes in a 1 of 5 Chance per Year Flood [%]",
		class{ClassBareSoil, 2},
		class{ClassOther, 5},
		class{ClassNaturalVeg, 36.2},
		class{ClassCultivated, 56.8},
		class{ClassTotal, 100},
	),
	"flood-2021": floodSeries("flood-2021",
		"Affected Landcover Classes in the Flooded Area [%]",
		class{ClassArtificial, 0.2},
		class{ClassBareSoil, 2.6},
		class{ClassOther, 2.8},
		class{ClassNaturalVeg, 37.9},
		class{ClassCultivated, 56.5},
		class{ClassTotal, 100},
	),
}

// DefaultPreset is used when no preset or inline values are given.
const DefaultPreset = "flood-1in500"

// Preset returns a copy of the named built-in series.
func Preset(name string) (Series, error) {
	if err := errors.ValidatePresetName(name); err != nil {
		return Series{}, err
	}
	s, ok := presets[name]
	if !ok {
		return Series{}, errors.New(errors.ErrCodePresetNotFound, "unknown preset %q (available: %v)", name, PresetNames())
	}
	return s.Clone(), nil
}

// PresetNames returns the built-in preset names in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Presets returns copies of all built-in series, sorted by name.
func Presets() []Series {
	names := PresetNames()
	out := make([]Series, len(names))
	for i, n := range names {
		out[i] = presets[n].Clone()
	}
	return out
}
