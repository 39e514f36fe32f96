package sink

import (
	"encoding/json"

	"github.com/matzehuels/nestsquare/pkg/core/layout"
	"github.com/matzehuels/nestsquare/pkg/core/render/colors"
	"github.com/matzehuels/nestsquare/pkg/errors"
)

// Document is the JSON form of a rendered layout.
type Document struct {
	Title      string         `json:"title,omitempty"`
	Max        float64        `json:"max"`
	Squares    []DocSquare    `json:"squares"`
	Placements []DocPlacement `json:"placements"`
	Text       TextOptions    `json:"text"`
}

// DocSquare is one square in draw order.
type DocSquare struct {
	Index int     `json:"index"`
	Side  float64 `json:"side"`
	Color string  `json:"color"`
}

// DocPlacement is one label anchor.
type DocPlacement struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// RenderJSON serializes the layout with resolved hex colors.
func RenderJSON(l layout.Layout, opts ...Option) ([]byte, error) {
	s, err := buildScene(l, opts...)
	if err != nil {
		return nil, err
	}
	doc := Document{
		Title:      s.r.title,
		Max:        l.Max,
		Squares:    make([]DocSquare, len(l.Squares)),
		Placements: make([]DocPlacement, len(l.Placements)),
		Text:       s.r.text,
	}
	for k, sq := range l.Squares {
		doc.Squares[k] = DocSquare{Index: sq.Index, Side: sq.Side, Color: colors.Hex(s.fills[k])}
	}
	for i, p := range l.Placements {
		doc.Placements[i] = DocPlacement{X: p.X, Y: p.Y, Text: p.Text}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return data, nil
}
