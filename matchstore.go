package dpm

// Unmatched is the sentinel MatchPattern value meaning "no correspondence
// computed yet" (or computed and rejected by the band).
const Unmatched = -1

// MatchPattern is the x-indexed vector of y-correspondences produced by
// one BandedDP call: pattern[x] is the reference-image y-coordinate that
// input column x maps to, or Unmatched.
type MatchPattern []int

// MatchStore holds one MatchPattern per scanline. It is shared across the
// scheduler's hierarchical passes: correctness relies on every scanline
// being written by exactly one task per pass and on a WorkerPool.Join
// happening-before any pass that reads another pass's scanlines, never on
// a lock, since the pattern slices themselves are disjoint by scanline.
type MatchStore struct {
	patterns []MatchPattern
	width    int
}

// NewMatchStore allocates a MatchStore for the given number of scanlines,
// each of the given width, with every entry initialized to Unmatched.
func NewMatchStore(scanlines, width int) *MatchStore {
	s := &MatchStore{
		patterns: make([]MatchPattern, scanlines),
		width:    width,
	}
	for i := range s.patterns {
		p := make(MatchPattern, width)
		for x := range p {
			p[x] = Unmatched
		}
		s.patterns[i] = p
	}
	return s
}

// Pattern returns the MatchPattern for scanline c. The returned slice is
// owned by the store; callers within the engine write to it directly, and
// the disjointness invariant above makes that safe.
func (s *MatchStore) Pattern(c int) MatchPattern {
	return s.patterns[c]
}

// ScanlineCount returns the number of scanlines held by the store.
func (s *MatchStore) ScanlineCount() int {
	return len(s.patterns)
}
