package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/nestsquare/pkg/errors"
)

const eps = 1e-9

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestComputeNormalization(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"ascending to 100", []float64{1, 2.3, 4, 44.2, 48.5, 100}},
		{"single value", []float64{42}},
		{"with zero", []float64{0, 10, 40}},
		{"unsorted", []float64{50, 10, 100, 25}},
		{"max not last", []float64{10, 80, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compute(tt.values, nil)
			if err != nil {
				t.Fatalf("Compute() error: %v", err)
			}

			maxVal := 0.0
			for _, v := range tt.values {
				maxVal = math.Max(maxVal, v)
			}
			if l.Max != maxVal {
				t.Errorf("Max = %v, want %v", l.Max, maxVal)
			}

			n := len(tt.values)
			if len(l.Squares) != n || len(l.Sides) != n {
				t.Fatalf("got %d squares, %d sides, want %d", len(l.Squares), len(l.Sides), n)
			}
			for i, v := range tt.values {
				want := math.Sqrt(v / maxVal)
				if !approx(l.Sides[i], want, eps) {
					t.Errorf("Sides[%d] = %v, want %v", i, l.Sides[i], want)
				}
				if l.Sides[i] < 0 || l.Sides[i] > 1 {
					t.Errorf("Sides[%d] = %v out of [0, 1]", i, l.Sides[i])
				}
			}
			// Squares are the sides in reverse input order.
			for k, sq := range l.Squares {
				j := n - 1 - k
				if sq.Index != j {
					t.Errorf("Squares[%d].Index = %d, want %d", k, sq.Index, j)
				}
				if sq.Side != l.Sides[j] {
					t.Errorf("Squares[%d].Side = %v, want %v", k, sq.Side, l.Sides[j])
				}
			}
		})
	}
}

func TestComputeTerminalUnitSquare(t *testing.T) {
	l, err := Compute([]float64{3, 7, 12.5, 100}, nil)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if l.Squares[0].Side != 1.0 {
		t.Errorf("Squares[0].Side = %v, want exactly 1.0", l.Squares[0].Side)
	}
	xmin, xmax, ymin, ymax := l.Extent()
	if xmin != 0 || ymin != 0 || xmax != 1 || ymax != 1 {
		t.Errorf("Extent() = (%v, %v, %v, %v), want unit box", xmin, xmax, ymin, ymax)
	}
}

func TestComputeLengths(t *testing.T) {
	values := []float64{1, 2, 3}

	l, err := Compute(values, nil)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if l.Labeled() || len(l.Placements) != 0 {
		t.Errorf("unlabeled layout has %d placements", len(l.Placements))
	}
	if l.Len() != len(values) {
		t.Errorf("Len() = %d, want %d", l.Len(), len(values))
	}

	l, err = Compute(values, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(l.Placements) != 3 {
		t.Errorf("got %d placements, want 3", len(l.Placements))
	}

	// An empty non-nil label slice is still a label series and must match.
	if _, err := Compute(values, []string{}); !errors.Is(err, errors.ErrCodeLengthMismatch) {
		t.Errorf("empty labels: error = %v, want LENGTH_MISMATCH", err)
	}
}

func TestComputeMidpointPlacement(t *testing.T) {
	values := []float64{0.2, 2.6, 2.8, 37.9, 56.5, 100}
	labels := []string{"a", "b", "c", "d", "e", "f"}

	l, err := Compute(values, labels)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if !approx(l.Placements[0].Y, l.Sides[0]-TopLabelInset, eps) {
		t.Errorf("Placements[0].Y = %v, want %v", l.Placements[0].Y, l.Sides[0]-TopLabelInset)
	}
	for i := 1; i < len(values); i++ {
		want := l.Sides[i] - (l.Sides[i]-l.Sides[i-1])/2
		if !approx(l.Placements[i].Y, want, eps) {
			t.Errorf("Placements[%d].Y = %v, want %v", i, l.Placements[i].Y, want)
		}
	}
	for i, p := range l.Placements {
		if p.X != LabelOffsetX {
			t.Errorf("Placements[%d].X = %v, want %v", i, p.X, LabelOffsetX)
		}
		if p.Text != labels[i] {
			t.Errorf("Placements[%d].Text = %q, want %q", i, p.Text, labels[i])
		}
	}
}

func TestComputeInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		labels []string
		code   errors.Code
	}{
		{"empty", []float64{}, nil, errors.ErrCodeInvalidInput},
		{"nil", nil, nil, errors.ErrCodeInvalidInput},
		{"negative", []float64{-1, 5}, []string{"a", "b"}, errors.ErrCodeInvalidInput},
		{"all zero", []float64{0, 0}, nil, errors.ErrCodeInvalidInput},
		{"NaN", []float64{1, math.NaN()}, nil, errors.ErrCodeInvalidInput},
		{"Inf", []float64{1, math.Inf(1)}, nil, errors.ErrCodeInvalidInput},
		{"labels short", []float64{1, 2, 3}, []string{"a", "b"}, errors.ErrCodeLengthMismatch},
		{"labels long", []float64{1, 2}, []string{"a", "b", "c"}, errors.ErrCodeLengthMismatch},
		{"negative wins over mismatch", []float64{-1, 2}, []string{"a"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compute(tt.values, tt.labels)
			if err == nil {
				t.Fatal("Compute() error = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Compute() code = %v, want %v", errors.GetCode(err), tt.code)
			}
			if l.Len() != 0 || l.Sides != nil || l.Placements != nil {
				t.Errorf("Compute() returned partial output on error: %+v", l)
			}
			if verr := Validate(tt.values, tt.labels); !errors.Is(verr, tt.code) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(verr), tt.code)
			}
		})
	}
}

func TestScenarioFlood1in500(t *testing.T) {
	values := []float64{1, 2.3, 4, 44.2, 48.5, 100}
	labels := []string{
		"Other (1.0%)",
		"Artificial Surface (2.3%)",
		"Natural Bare Soil (4.0%)",
		"Natural Terrestrial Vegetation (44.2%)",
		"Cultivated Terrestrial Vegetation (48.5%)",
		"Total Area (100%)",
	}

	l, err := Compute(values, labels)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if l.Max != 100 {
		t.Errorf("Max = %v, want 100", l.Max)
	}
	wantR := []float64{0.1, 0.1517, 0.2, 0.6648, 0.6964, 1.0}
	for i, w := range wantR {
		if !approx(l.Sides[i], w, 1e-4) {
			t.Errorf("Sides[%d] = %.4f, want %.4f", i, l.Sides[i], w)
		}
	}
	if l.Squares[0].Side != 1.0 {
		t.Errorf("first square side = %v, want 1.0", l.Squares[0].Side)
	}
	if last := l.Squares[len(l.Squares)-1].Side; !approx(last, 0.1, eps) {
		t.Errorf("last square side = %v, want 0.1", last)
	}
	if !approx(l.Placements[0].Y, 0.08, eps) {
		t.Errorf("Placements[0].Y = %v, want 0.08", l.Placements[0].Y)
	}
}

func TestScenarioFlood1in5(t *testing.T) {
	values := []float64{2.0, 5.0, 36.2, 56.8, 100}
	labels := []string{"a", "b", "c", "d", "e"}

	l, err := Compute(values, labels)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if l.Len() != 5 || len(l.Placements) != 5 || len(l.Sides) != 5 {
		t.Errorf("lengths = %d/%d/%d, want 5", l.Len(), len(l.Placements), len(l.Sides))
	}
	if l.Sides[4] != 1.0 {
		t.Errorf("side of total = %v, want 1.0", l.Sides[4])
	}
}

func TestAscending(t *testing.T) {
	tests := []struct {
		values []float64
		want   bool
	}{
		{[]float64{1, 2, 3}, true},
		{[]float64{1, 1, 3}, true},
		{[]float64{5}, true},
		{nil, true},
		{[]float64{3, 1}, false},
	}

	for _, tt := range tests {
		if got := Ascending(tt.values); got != tt.want {
			t.Errorf("Ascending(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}

func TestSquareBounds(t *testing.T) {
	s := Square{Index: 2, Side: 0.5}
	x0, y0, x1, y1 := s.Bounds()
	if x0 != 0 || y0 != 0 || x1 != 0.5 || y1 != 0.5 {
		t.Errorf("Bounds() = (%v, %v, %v, %v)", x0, y0, x1, y1)
	}
	if s.Area() != 0.25 {
		t.Errorf("Area() = %v, want 0.25", s.Area())
	}
}
