package dpm

import (
	"context"
	"fmt"

	"github.com/gogpu/dpm/internal/parallel"
)

// Matcher is the public entry point: it owns a WorkerPool sized to
// threads and a MatchStore sized to the input image, and runs either the
// stereo or fusion cost variant over it via a SkipScheduler.
//
// A Matcher is built once per input/reference pair and is not safe to
// reuse concurrently across Stereo/Fusion calls: both mutate the same
// MatchStore.
type Matcher struct {
	input, refer ImageRef
	pool         *parallel.WorkerPool
	store        *MatchStore
	tables       []*DPTable
}

// NewMatcher validates input and reference and constructs a Matcher. It
// rejects zero or negative dimensions and a zero thread count, following
// the teacher's dimension-validation convention of returning a plain
// error rather than panicking.
func NewMatcher(input, reference ImageRef, threads int) (*Matcher, error) {
	if input.Width() <= 0 || input.Height() <= 0 {
		return nil, fmt.Errorf("dpm: input image has non-positive dimensions %dx%d", input.Width(), input.Height())
	}
	if reference.Width() <= 0 || reference.Height() <= 0 {
		return nil, fmt.Errorf("dpm: reference image has non-positive dimensions %dx%d", reference.Width(), reference.Height())
	}
	if input.Height() != reference.Height() {
		return nil, fmt.Errorf("dpm: input height %d does not match reference height %d", input.Height(), reference.Height())
	}
	if threads <= 0 {
		return nil, fmt.Errorf("dpm: thread count must be positive, got %d", threads)
	}

	pool := parallel.NewWorkerPool(threads)
	tables := make([]*DPTable, pool.Workers())
	for i := range tables {
		tables[i] = NewDPTable(input.Width(), reference.Width())
	}

	return &Matcher{
		input:  input,
		refer:  reference,
		pool:   pool,
		store:  NewMatchStore(input.Height(), input.Width()),
		tables: tables,
	}, nil
}

// Close shuts down the Matcher's worker pool. Call it once the Matcher is
// no longer needed.
func (m *Matcher) Close() {
	m.pool.Close()
}

// Stereo runs the stereo disparity variant: skip is the coarse pass's
// scanline stride, weight biases diagonal steps, rowRange bounds the
// vertical edge-aggregation window, threshold is the Sobel edge
// threshold, and maxDisparity is the search band's left range.
func (m *Matcher) Stereo(ctx context.Context, skip int, weight float64, rowRange, threshold, maxDisparity int) error {
	cost := NewStereoCost(m.pool, m.input, m.refer, weight, rowRange, threshold, maxDisparity)
	return m.run(ctx, cost, skip)
}

// Fusion runs the fusion variant, warping the reference (laser) image
// onto the input (stereo) image's geometry with a symmetric +/-40 band.
//
// Fusion's glue term reads a previously solved scanline's MatchPattern at
// a reference-image y-coordinate (fusion.go), so unlike Stereo it requires
// input and reference to share the same width.
func (m *Matcher) Fusion(ctx context.Context, skip int, sigmaC, sigmaG float64) error {
	if m.input.Width() != m.refer.Width() {
		return fmt.Errorf("dpm: fusion requires equal input and reference widths, got %d and %d", m.input.Width(), m.refer.Width())
	}
	cost := NewFusionCost(m.input, m.refer, m.store, sigmaC, sigmaG)
	return m.run(ctx, cost, skip)
}

func (m *Matcher) run(ctx context.Context, cost CostFunction, skip int) error {
	bandedDP := NewBandedDP(cost)
	scheduler := NewSkipScheduler(m.pool, bandedDP, m.store, m.tables, m.input.Width(), m.refer.Width(), m.input.Height())

	Logger().Debug("dpm: starting run", "skip", skip, "scanlines", m.input.Height())

	if err := scheduler.Run(ctx, skip); err != nil {
		return err
	}

	m.pool.Join()
	return nil
}

// MatchPattern returns scanline c's correspondence vector. Entries never
// touched by a pass remain Unmatched.
func (m *Matcher) MatchPattern(c int) []int {
	return m.store.Pattern(c)
}
