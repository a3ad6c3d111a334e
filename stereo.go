package dpm

import (
	"math"

	"github.com/gogpu/dpm/internal/parallel"
)

// EdgeMap is a Sobel-derived mask over an image, sized identically to it.
// Each pixel stores a clamped gradient magnitude and a binary "is-edge"
// flag; StereoCost grows its vertical cost-aggregation window along
// columns where the flag is set.
type EdgeMap struct {
	width, height int
	magnitude     []byte
	isEdge        []bool
}

// NewEdgeMap allocates an EdgeMap of the given dimensions, cleared to zero
// (no edges).
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{
		width:     width,
		height:    height,
		magnitude: make([]byte, width*height),
		isEdge:    make([]bool, width*height),
	}
}

func (e *EdgeMap) index(x, y int) int { return x + y*e.width }

// Magnitude returns the clamped Sobel magnitude at (x, y).
func (e *EdgeMap) Magnitude(x, y int) byte { return e.magnitude[e.index(x, y)] }

// IsEdge reports whether (x, y) exceeds the edge threshold.
func (e *EdgeMap) IsEdge(x, y int) bool { return e.isEdge[e.index(x, y)] }

func (e *EdgeMap) set(x, y int, mag byte, edge bool) {
	i := e.index(x, y)
	e.magnitude[i] = mag
	e.isEdge[i] = edge
}

// computeEdgeMap dispatches H/N row slabs of a 3x3 Sobel operator to the
// pool (the last slab also takes the rows left over by the division) and
// joins before returning. Slab boundaries clamp to the
// interior [1, H-2]; the outermost rows/columns are left at zero, matching
// the source's uncomputed border.
func computeEdgeMap(pool *parallel.WorkerPool, img ImageRef, threshold int) *EdgeMap {
	w, h := img.Width(), img.Height()
	edge := NewEdgeMap(w, h)

	n := pool.Workers()
	if n <= 0 {
		n = 1
	}
	slab := h / n
	if slab < 1 {
		slab = 1
	}

	for i := 0; i < n; i++ {
		start := i * slab
		length := slab
		if i == n-1 {
			length = h - start
		}
		pool.Submit(func(int) {
			sobelSlab(img, edge, start, length, threshold)
		})
	}
	pool.Join()

	return edge
}

// sobelSlab computes the Sobel magnitude and edge flag for rows in
// [start, start+length), clamped to the valid interior [1, H-2] and
// columns [1, W-2].
func sobelSlab(img ImageRef, edge *EdgeMap, start, length, threshold int) {
	w := img.Width() - 1
	h := img.Height() - 1

	if start == 0 {
		start = 1
	}
	if start+length > h {
		length = h - start
	}
	if length <= 0 {
		return
	}

	for y := start; y < start+length; y++ {
		for x := 1; x < w; x++ {
			rtR, rtG, rtB := img.PixelAt(x+1, y-1)
			ltR, ltG, ltB := img.PixelAt(x-1, y-1)
			rbR, rbG, rbB := img.PixelAt(x+1, y+1)
			lbR, lbG, lbB := img.PixelAt(x-1, y+1)
			rmR, rmG, rmB := img.PixelAt(x+1, y)
			lmR, lmG, lmB := img.PixelAt(x-1, y)
			ctR, ctG, ctB := img.PixelAt(x, y-1)
			cbR, cbG, cbB := img.PixelAt(x, y+1)

			pxr := int(rtR) - int(ltR) + int(rbR) - int(lbR) + 2*(int(rmR)-int(lmR))
			pxg := int(rtG) - int(ltG) + int(rbG) - int(lbG) + 2*(int(rmG)-int(lmG))
			pxb := int(rtB) - int(ltB) + int(rbB) - int(lbB) + 2*(int(rmB)-int(lmB))

			pyr := int(lbR) - int(ltR) + int(rbR) - int(rtR) + 2*(int(cbR)-int(ctR))
			pyg := int(lbG) - int(ltG) + int(rbG) - int(rtG) + 2*(int(cbG)-int(ctG))
			pyb := int(lbB) - int(ltB) + int(rbB) - int(rtB) + 2*(int(cbB)-int(ctB))

			k := (pxr*pxr + pyr*pyr + pxg*pxg + pyg*pyg + pxb*pxb + pyb*pyb) / 9

			mag := math.Sqrt(float64(k))
			if mag > 255 {
				mag = 255
			}

			edge.set(x, y, byte(mag), mag > float64(threshold))
		}
	}
}

// StereoCost is the cost-function variant for left/right camera disparity
// recovery. Search is asymmetric: leftRange = maxDisparity, rightRange =
// 0, matching standard stereo epipolar geometry (the reference image is
// only searched to the left of the input column).
type StereoCost struct {
	input, refer ImageRef
	edge         *EdgeMap

	weight       float64
	rowRange     int
	maxDisparity int

	height int
}

// NewStereoCost builds a StereoCost over input/refer, with an EdgeMap
// computed from input via pool. threshold is the Sobel edge threshold.
func NewStereoCost(pool *parallel.WorkerPool, input, refer ImageRef, weight float64, rowRange, threshold, maxDisparity int) *StereoCost {
	return &StereoCost{
		input:        input,
		refer:        refer,
		edge:         computeEdgeMap(pool, input, threshold),
		weight:       weight,
		rowRange:     rowRange,
		maxDisparity: maxDisparity,
		height:       input.Height(),
	}
}

// Ranges implements CostFunction.
func (s *StereoCost) Ranges() (leftRange, rightRange int) {
	return s.maxDisparity, 0
}

// norm returns the Euclidean RGB distance between input[x,c] and
// refer[y,c], normalized to [0,1].
func (s *StereoCost) norm(x, y, c int) float64 {
	ir, ig, ib := s.input.PixelAt(x, c)
	rr, rg, rb := s.refer.PixelAt(y, c)
	dr := float64(ir) - float64(rr)
	dg := float64(ig) - float64(rg)
	db := float64(ib) - float64(rb)
	return math.Sqrt(dr*dr+dg*dg+db*db) / 255.0
}

// BaseCost implements CostFunction. It aggregates norm(x, y, c) over a
// vertical neighborhood in the input's edge column x, walking outward
// from c while the EdgeMap marks each row as an edge.
func (s *StereoCost) BaseCost(x, y, c, _ int) float64 {
	count := 1
	d := s.norm(x, y, c)

	for i := 1; c+i < s.height && s.edge.IsEdge(x, c+i) && i < s.rowRange; i++ {
		d += s.norm(x, y, c+i)
		count++
	}
	for i := 1; c-i >= 0 && s.edge.IsEdge(x, c-i) && i < s.rowRange; i++ {
		d += s.norm(x, y, c-i)
		count++
	}

	return d / float64(count)
}

// VerticalBias implements CostFunction (identity).
func (s *StereoCost) VerticalBias(_, _, _ int, cost float64) float64 { return cost }

// HorizontalBias implements CostFunction (identity).
func (s *StereoCost) HorizontalBias(_, _, _ int, cost float64) float64 { return cost }

// DiagonalBias implements CostFunction. Diagonal steps correspond to
// no-disparity matches; penalizing them proportionally to squared local
// dissimilarity biases the path toward vertical/horizontal steps where
// dissimilarity is high (occlusion handling).
func (s *StereoCost) DiagonalBias(_, _, _ int, cost float64) float64 {
	return s.weight * cost * cost
}
