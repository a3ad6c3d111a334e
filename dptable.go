package dpm

import "math"

// maxCost mirrors the source's Node::cost default (DPM.h's MAX_COST):
// every cell's accumulated cost starts at "infinity" rather than Go's
// zero value, so a predecessor just outside the band that is never
// relaxed cannot look like a free, zero-cost step.
const maxCost = math.MaxFloat64

// PathDir identifies the predecessor direction recorded for a DP cell.
type PathDir int8

const (
	// DirNone marks a cell with no recorded predecessor yet.
	DirNone PathDir = iota
	// DirVertical means the path arrived from (x, y-1).
	DirVertical
	// DirHorizontal means the path arrived from (x-1, y).
	DirHorizontal
	// DirDiagonal means the path arrived from (x-1, y-1).
	DirDiagonal
)

func (d PathDir) String() string {
	switch d {
	case DirVertical:
		return "vertical"
	case DirHorizontal:
		return "horizontal"
	case DirDiagonal:
		return "diagonal"
	default:
		return "none"
	}
}

// DPCell holds one cell's path-biased edge costs, its accumulated
// shortest-path cost from the scanline's source cell, and the predecessor
// direction chosen during relaxation.
//
// State machine per cell: unset -> initialized (edge costs written by
// CostFunction) -> finalized (accumulated cost and direction written by
// relaxation). The band's leading edge reads one predecessor just outside
// the initialized region (a row's horizontal predecessor at the left band
// boundary, a column's vertical predecessor at the top): AccCost must stay
// at maxCost there rather than Go's zero value, or that uninitialized
// neighbor looks like a free step and wins the min-selection. NewDPTable
// seeds every cell to maxCost up front so this holds without an explicit
// reset between scanlines.
type DPCell struct {
	VerticalCost   float64
	HorizontalCost float64
	DiagonalCost   float64

	AccCost   float64
	Direction PathDir
}

// DPTable is a flat row-major array of DPCell sized X*Y, the DP table for
// one scanline. One table is allocated per worker and reused across
// scanlines.
type DPTable struct {
	X, Y  int
	cells []DPCell
}

// NewDPTable allocates a DPTable for an X (input width) by Y (reference
// width) DP grid, with every cell's AccCost initialized to maxCost.
func NewDPTable(x, y int) *DPTable {
	t := &DPTable{X: x, Y: y, cells: make([]DPCell, x*y)}
	for i := range t.cells {
		t.cells[i].AccCost = maxCost
	}
	return t
}

// index converts a (x, y) DP-table coordinate into the flat cell index.
func (t *DPTable) index(x, y int) int {
	return x + y*t.X
}

// At returns a pointer to the cell at (x, y) for in-place mutation.
func (t *DPTable) At(x, y int) *DPCell {
	return &t.cells[t.index(x, y)]
}
