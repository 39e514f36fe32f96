// Package layout computes nested-square geometry for area-proportional diagrams.
//
// # Overview
//
// A nested-square diagram shows a cumulative percentage breakdown as a stack
// of squares anchored at a common origin. Each value becomes a square whose
// side is the square root of the value normalized by the series maximum, so
// the square's area (not its side) is proportional to the value:
//
//	side[i] = sqrt(values[i] / max(values))
//
// With the conventional input (ascending, ending at the 100% total) the last
// value yields the unit square and every other square nests inside it.
//
// # Draw Order
//
// [Layout.Squares] lists the squares largest first. Renderers paint them in
// that order so that smaller squares end up on top of the larger ones
// (painter's algorithm). [Layout.Sides] keeps the original input order.
//
// # Labels
//
// Label placements are computed in input order. The first label sits just
// below the top edge of its square; every following label sits halfway
// between its own top edge and the top edge of the previous (smaller) square.
// All labels share the same x offset left of the origin and are meant to be
// drawn right-aligned and vertically centered.
//
// # Validation
//
// [Compute] validates everything before it computes anything: an empty or
// negative series, a non-finite value or a non-positive maximum yields an
// INVALID_INPUT error, and a label series of the wrong length yields
// LENGTH_MISMATCH. Sortedness is not checked; unsorted input produces valid
// squares whose labels may overlap.
package layout
