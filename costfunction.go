package dpm

// CostFunction supplies the per-cell base cost and the three path-biased
// costs consumed by BandedDP. Two concrete implementations exist:
// StereoCost and FusionCost.
//
// BaseCost(x, y, c, s) returns d(x, y, c, s): a non-negative finite cost
// for matching input column x against reference column y while solving
// scanline c at skip distance s. The three bias methods turn that base
// cost into the cost assigned to an incoming vertical, horizontal, or
// diagonal edge; the default behavior (when a variant does not override
// a bias) is identity.
type CostFunction interface {
	// Ranges returns the left/right half-widths of the correspondence
	// band for this variant.
	Ranges() (leftRange, rightRange int)

	// BaseCost computes d(x, y, c, s).
	BaseCost(x, y, c, s int) float64

	// VerticalBias turns a base cost into the vertical-edge cost.
	VerticalBias(x, y, c int, cost float64) float64
	// HorizontalBias turns a base cost into the horizontal-edge cost.
	HorizontalBias(x, y, c int, cost float64) float64
	// DiagonalBias turns a base cost into the diagonal-edge cost.
	DiagonalBias(x, y, c int, cost float64) float64
}
