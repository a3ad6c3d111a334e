package dpm

// clampInt clamps v into [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BandedDP is the per-scanline DP engine: given a rectangle and a column
// index, it computes the min-cost monotonic path under the banded
// constraint and writes the resulting x->y mapping into the MatchStore.
//
// A BandedDP is stateless aside from its CostFunction and band widths; the
// DPTable it relaxes into is supplied per call, one per worker, so many
// goroutines can share one BandedDP value.
type BandedDP struct {
	cost                 CostFunction
	leftRange, rightRange int
}

// NewBandedDP builds a BandedDP over the given cost function, reading the
// band widths from cost.Ranges().
func NewBandedDP(cost CostFunction) *BandedDP {
	l, r := cost.Ranges()
	return &BandedDP{cost: cost, leftRange: l, rightRange: r}
}

// Matching solves the min-cost monotonic path from (sx, sy) to (ex, ey)
// within the band, writing the result into store's pattern for column,
// using table as scratch. skip is the current scheduler skip distance,
// forwarded to the cost function.
func (b *BandedDP) Matching(table *DPTable, store *MatchStore, sx, sy, ex, ey, column, skip int) error {
	leftRange, rightRange := b.leftRange, b.rightRange

	// 1. Clamp endpoints to the band.
	sy = clampInt(sy, sx-leftRange, sx+rightRange)
	ey = clampInt(ey, ex-leftRange, ex+rightRange)

	// 2. Cost initialization.
	for y := sy; y <= ey; y++ {
		start := max(sx, y-rightRange)
		end := min(ex, y+leftRange)
		for x := start; x <= end; x++ {
			base := b.cost.BaseCost(x, y, column, skip)
			cell := table.At(x, y)
			cell.VerticalCost = b.cost.VerticalBias(x, y, column, base)
			cell.HorizontalCost = b.cost.HorizontalBias(x, y, column, base)
			cell.DiagonalCost = b.cost.DiagonalBias(x, y, column, base)
		}
	}

	// 3. Source cell.
	table.At(sx, sy).AccCost = 0

	// 4. Bottom-edge seed (along y = sy), capped at the rectangle's ex.
	for x := sx + 1; x <= min(leftRange, ex); x++ {
		cell := table.At(x, sy)
		cell.AccCost = cell.HorizontalCost + table.At(x-1, sy).AccCost
		cell.Direction = DirHorizontal
	}

	// 5. Left-edge seed (along x = sx), capped at the rectangle's ey.
	for y := sy + 1; y <= min(rightRange, ey); y++ {
		cell := table.At(sx, y)
		cell.AccCost = cell.VerticalCost + table.At(sx, y-1).AccCost
		cell.Direction = DirVertical
	}

	// 6. Interior relaxation.
	for y := sy + 1; y <= ey; y++ {
		start := max(sx+1, y-rightRange)
		end := min(ex, y+leftRange)
		for x := start; x <= end; x++ {
			cell := table.At(x, y)

			vCand := cell.VerticalCost + table.At(x, y-1).AccCost
			hCand := cell.HorizontalCost + table.At(x-1, y).AccCost
			dCand := cell.DiagonalCost + table.At(x-1, y-1).AccCost

			acc := min(vCand, min(hCand, dCand))
			cell.AccCost = acc

			switch {
			case acc == dCand:
				cell.Direction = DirDiagonal
			case acc == vCand:
				cell.Direction = DirVertical
			case acc == hCand:
				cell.Direction = DirHorizontal
			default:
				return &MatchingError{Scanline: column, X: x, Y: y, Reason: "NaN candidate cost during min-selection"}
			}
		}
	}

	// 7. Backtrace.
	pattern := store.Pattern(column)
	x, y := ex, ey
	for x > sx || y > sy {
		pattern[x] = y

		switch table.At(x, y).Direction {
		case DirVertical:
			y--
		case DirHorizontal:
			x--
		case DirDiagonal:
			x--
			y--
		default:
			Logger().Warn("dpm: backtrace hit unset direction at clamped boundary",
				"scanline", column, "sx", sx, "sy", sy, "ex", ex, "ey", ey, "x", x, "y", y)
			if x <= sx && y > sy {
				y--
			}
			if y <= sy && x > sx {
				x--
			}
		}
	}

	return nil
}
