package dpm

import (
	"context"
	"sync"

	"github.com/gogpu/dpm/internal/parallel"
)

// interpolateTolerance is the "< 5" threshold from the refine pass: when
// the two neighboring scanlines' disparities agree within this many
// pixels, the intermediate scanline is filled by copying rather than
// re-solved.
const interpolateTolerance = 5

// SkipScheduler is the recursive hierarchical scheduler: given an initial
// skip distance S, it solves scanlines {0, S, 2S, ...} directly, then
// halves S and fills each intermediate scanline either by copying an
// agreeing neighbor's pattern or by re-solving a horizontally narrowed DP
// segment, until the skip distance reaches 1.
type SkipScheduler struct {
	pool   *parallel.WorkerPool
	store  *MatchStore
	dp     *BandedDP
	tables []*DPTable

	inputWidth, referWidth int // DP table X, Y extents
	scanlines              int // number of scanlines to solve (input height)

	mu   sync.Mutex
	fail error
}

// NewSkipScheduler builds a scheduler over pool, writing into store via
// dp, reusing the given per-worker DPTables (indexed by the worker id a
// Task receives). scanlines is the number of rows to solve; inputWidth
// and referWidth are the DP table's X and Y extents: they locate the
// band's far edge, and inputWidth also bounds the refine pass's column
// loop.
func NewSkipScheduler(pool *parallel.WorkerPool, dp *BandedDP, store *MatchStore, tables []*DPTable, inputWidth, referWidth, scanlines int) *SkipScheduler {
	return &SkipScheduler{
		pool:       pool,
		store:      store,
		dp:         dp,
		tables:     tables,
		inputWidth: inputWidth,
		referWidth: referWidth,
		scanlines:  scanlines,
	}
}

func (s *SkipScheduler) recordFailure(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.fail == nil {
		s.fail = err
	}
	s.mu.Unlock()
}

func (s *SkipScheduler) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail
}

// Run solves every scanline in [0, height) starting from the given skip
// distance. ctx is checked once before the coarse pass and once per
// refine level, so a caller can abandon a long run between hierarchical
// passes without the pool's internal wait loops ever seeing the context.
func (s *SkipScheduler) Run(ctx context.Context, skip int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	height := s.scanlines
	ex := s.inputWidth - 1
	ey := s.referWidth - 1

	for c := 0; c < height; c += skip {
		column := c
		s.pool.Submit(func(workerID int) {
			table := s.tables[workerID]
			if err := s.dp.Matching(table, s.store, 0, 0, ex, ey, column, skip); err != nil {
				Logger().Error("dpm: coarse pass failed", "scanline", column, "err", err)
				s.recordFailure(err)
			}
		})
	}
	s.pool.Join()

	if err := s.failure(); err != nil {
		return err
	}

	return s.refine(ctx, skip)
}

// refine performs one halving level of the refinement pass and recurses
// until halfSkip reaches 0. Each level joins the pool before returning,
// satisfying the ordering guarantee that a join happens-before the next
// level's reads of MatchStore.
func (s *SkipScheduler) refine(ctx context.Context, skip int) error {
	halfSkip := skip / 2
	if halfSkip == 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	width := s.inputWidth
	height := s.scanlines
	ey := s.referWidth - 1

	for c := halfSkip; c < height; c += 2 * halfSkip {
		column := c
		prevIdx := max(column-halfSkip, 0)
		nextIdx := min(column+halfSkip, height-1)

		s.pool.Submit(func(workerID int) {
			table := s.tables[workerID]
			prev := s.store.Pattern(prevIdx)
			next := s.store.Pattern(nextIdx)
			current := s.store.Pattern(column)

			for x := 0; x < width; {
				agree := prev[x] - x
				if agree < 0 {
					agree = -agree
				}
				disagree := next[x] - x
				if disagree < 0 {
					disagree = -disagree
				}
				diff := agree - disagree
				if diff < 0 {
					diff = -diff
				}

				if diff < interpolateTolerance {
					current[x] = prev[x]
					x++
					continue
				}

				j := width - 1
				for k := x + 1; k < width; k++ {
					if prev[k] == next[k] {
						j = k
						break
					}
				}

				sx := max(0, x-1)
				if err := s.dp.Matching(table, s.store, sx, 0, j, ey, column, halfSkip); err != nil {
					Logger().Error("dpm: refine pass failed", "scanline", column, "err", err)
					s.recordFailure(err)
				}
				x = j + 1
			}
		})
	}
	s.pool.Join()

	if err := s.failure(); err != nil {
		return err
	}

	return s.refine(ctx, halfSkip)
}
