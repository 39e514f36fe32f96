// Package sink provides output format renderers for nested-square layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format.
// This package provides renderers for:
//
//   - SVG: vector output with hover highlighting ([RenderSVG])
//   - PNG: raster output via gonum/plot ([RenderPNG])
//   - PDF and EPS: print output via gonum/plot ([RenderPDF], [RenderEPS])
//   - JSON: the geometry with resolved colors ([RenderJSON])
//
// All renderers share one option set:
//
//	svg, err := sink.RenderSVG(l,
//	    sink.WithColors([]string{"#d9f0a3", "#addd8e", "#78c679"}),
//	    sink.WithTitle("Affected Landcover Classes [%]"),
//	    sink.WithText(sink.TextOptions{Color: "navy"}),
//	)
//
// # Colors
//
// [WithColors] is required. Colors are index-aligned with the draw order:
// colors[k] paints l.Squares[k], so colors[0] fills the outermost square.
// A series whose length differs from the layout fails with
// LENGTH_MISMATCH before anything is drawn.
//
// # Text
//
// [TextOptions] is an immutable value. [WithText] merges the caller's
// non-zero fields over [DefaultTextOptions] for that call only; nothing is
// shared between renders.
//
// # Geometry
//
// The unit square is [WithSize] pixels wide (default 480). Labels sit in a
// column [WithGutter] unit squares wide (default 1.2) to the left of the
// squares. The aspect ratio is 1:1 in SVG output and approximately 1:1 in
// gonum/plot output, where the plot reserves a small pad around the data area.
//
// [layout.Layout]: github.com/matzehuels/nestsquare/pkg/core/layout.Layout
package sink
