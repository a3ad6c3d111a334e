// Package dpm computes per-scanline correspondences between two rectified
// images using scanline-skipping Dynamic Programming Matching.
//
// # Overview
//
// dpm solves, for every scanline of an input image, a minimum-cost
// monotonic path through a 2-D cost table against a reference image's
// scanline. It supports two cost-function variants:
//
//   - Stereo: left/right camera disparity recovery, biased by Sobel edges.
//   - Fusion: warps a sparse laser depth image onto a dense stereo depth
//     image's geometry, gluing each scanline's correspondence to its
//     already-solved neighbors.
//
// Both variants run on a shared hierarchical scheduler: a coarse set of
// scanlines is solved first, then the gaps are filled by interpolation or
// by re-solving a narrowed segment, at progressively finer skip distances.
// The scheduler fans work out across a worker pool; scanlines within a
// pass are independent, and passes are separated by a barrier join.
//
// # Quick Start
//
//	left := dpm.NewRasterFromImage(leftImg)
//	right := dpm.NewRasterFromImage(rightImg)
//
//	m, err := dpm.NewMatcher(left, right, runtime.GOMAXPROCS(0))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer m.Close()
//	if err := m.Stereo(context.Background(), 4, 1.0, 5, 30, 40); err != nil {
//		log.Fatal(err)
//	}
//
//	for y := 0; y < left.Height(); y++ {
//		pattern := m.MatchPattern(y)
//		_ = pattern // pattern[x] is the matched y in right, or -1
//	}
//
// # Non-goals
//
// Sub-pixel correspondence, left-right consistency / hole filling beyond
// the skip-interpolation rule, multi-scale refinement, non-epipolar
// matching, and GPU acceleration are explicitly out of scope.
package dpm

// Version is the current version of the library.
const Version = "0.1.0"
