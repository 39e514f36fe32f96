package layout

import (
	"math"

	"github.com/matzehuels/nestsquare/pkg/errors"
)

const (
	// LabelOffsetX is the x coordinate shared by all label placements,
	// slightly left of the origin so right-aligned text clears the squares.
	LabelOffsetX = -0.05

	// TopLabelInset moves the first label just below its square's top edge.
	TopLabelInset = 0.02
)

// Square is a square anchored at the origin (0,0).
type Square struct {
	Index int     // position of the source value in the input series
	Side  float64 // side length in data units, in [0, 1]
}

// Bounds returns the square's corners as (x0, y0, x1, y1).
func (s Square) Bounds() (x0, y0, x1, y1 float64) { return 0, 0, s.Side, s.Side }

// Area returns the square's area, which is proportional to its value.
func (s Square) Area() float64 { return s.Side * s.Side }

// Placement is an anchor point for one label.
type Placement struct {
	X, Y float64
	Text string
}

// Layout is the computed geometry for one series.
type Layout struct {
	Max        float64     // normalization denominator
	Sides      []float64   // normalized side lengths in input order
	Squares    []Square    // draw order: largest first
	Placements []Placement // input order; empty when unlabeled
}

// Len returns the number of squares.
func (l Layout) Len() int { return len(l.Squares) }

// Labeled reports whether the layout carries label placements.
func (l Layout) Labeled() bool { return len(l.Placements) > 0 }

// Extent returns the data-space bounding box of all squares.
// Renderers use it to fit their view without any axis decoration.
func (l Layout) Extent() (xmin, xmax, ymin, ymax float64) {
	var side float64
	for _, s := range l.Squares {
		side = max(side, s.Side)
	}
	return 0, side, 0, side
}

// Compute normalizes values into nested squares and, when labels is non-nil,
// computes one label placement per value.
//
// Validation happens before any computation; on error the returned Layout is
// the zero value.
func Compute(values []float64, labels []string) (Layout, error) {
	maxVal, err := validate(values, labels)
	if err != nil {
		return Layout{}, err
	}

	sides := make([]float64, len(values))
	for i, v := range values {
		sides[i] = math.Sqrt(v / maxVal)
	}

	squares := make([]Square, len(sides))
	for i := range sides {
		j := len(sides) - 1 - i
		squares[i] = Square{Index: j, Side: sides[j]}
	}

	var placements []Placement
	if labels != nil {
		placements = make([]Placement, len(sides))
		for i, r := range sides {
			y := r - TopLabelInset
			if i > 0 {
				y = r - (r-sides[i-1])/2
			}
			placements[i] = Placement{X: LabelOffsetX, Y: y, Text: labels[i]}
		}
	}

	return Layout{
		Max:        maxVal,
		Sides:      sides,
		Squares:    squares,
		Placements: placements,
	}, nil
}

// Validate checks values and labels without computing geometry.
func Validate(values []float64, labels []string) error {
	_, err := validate(values, labels)
	return err
}

// Ascending reports whether values are non-decreasing. The layout accepts
// unsorted input; callers use this to warn about overlapping labels.
func Ascending(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return false
		}
	}
	return true
}

func validate(values []float64, labels []string) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "value series is empty")
	}
	maxVal := math.Inf(-1)
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errors.New(errors.ErrCodeInvalidInput, "value %d is not finite: %v", i, v)
		}
		if v < 0 {
			return 0, errors.New(errors.ErrCodeInvalidInput, "value %d is negative: %v", i, v)
		}
		maxVal = max(maxVal, v)
	}
	if maxVal <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "maximum value must be positive, got %v", maxVal)
	}
	if labels != nil && len(labels) != len(values) {
		return 0, errors.New(errors.ErrCodeLengthMismatch, "got %d labels for %d values", len(labels), len(values))
	}
	return maxVal, nil
}
