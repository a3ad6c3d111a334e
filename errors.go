package dpm

import "fmt"

// MatchingError reports an internal DP invariant violation: a candidate
// cost went NaN during min-selection. It indicates a programming error in
// a CostFunction or in the banded geometry, not a property of the input
// images. A cell without a predecessor direction met during backtrace is
// not reported as a MatchingError: BandedDP logs a warning and takes the
// fallback step instead.
type MatchingError struct {
	Scanline int
	X, Y     int
	Reason   string
}

func (e *MatchingError) Error() string {
	return fmt.Sprintf("dpm: invariant violation at scanline %d, cell (%d,%d): %s", e.Scanline, e.X, e.Y, e.Reason)
}
