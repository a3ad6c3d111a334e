package dpm

import (
	"context"
	"testing"
)

func TestNewMatcher_RejectsZeroDimensions(t *testing.T) {
	bad := NewRaster(0, 4)
	good := NewRaster(4, 4)

	if _, err := NewMatcher(bad, good, 2); err == nil {
		t.Error("NewMatcher with zero-width input returned nil error")
	}
	if _, err := NewMatcher(good, bad, 2); err == nil {
		t.Error("NewMatcher with zero-width reference returned nil error")
	}
}

func TestNewMatcher_RejectsZeroThreads(t *testing.T) {
	img := NewRaster(4, 4)
	if _, err := NewMatcher(img, img, 0); err == nil {
		t.Error("NewMatcher with zero threads returned nil error")
	}
}

func TestNewMatcher_RejectsHeightMismatch(t *testing.T) {
	a := NewRaster(4, 4)
	b := NewRaster(4, 8)
	if _, err := NewMatcher(a, b, 2); err == nil {
		t.Error("NewMatcher with mismatched heights returned nil error")
	}
}

// TestMatcher_FusionRejectsWidthMismatch is the guard against the
// out-of-range index fusion.go's glue term would otherwise hit: it reads
// a previously solved scanline's MatchPattern at a reference-image
// y-coordinate, which only stays in bounds when input and reference share
// a width.
func TestMatcher_FusionRejectsWidthMismatch(t *testing.T) {
	input := NewRaster(4, 4)
	refer := NewRaster(8, 4)

	m, err := NewMatcher(input, refer, 2)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	defer m.Close()

	if err := m.Fusion(context.Background(), 2, 0.1, 0.1); err == nil {
		t.Error("Fusion with mismatched widths returned nil error")
	}
}

// TestMatcher_StereoIdentity is the stereo-identity testable property:
// when input and reference are the same image, the stereo variant
// should match every column to itself. The DP backtrace never writes the
// band's source-anchor column (x=0 in a full-width call, see DESIGN.md),
// so that one entry is checked separately.
func TestMatcher_StereoIdentity(t *testing.T) {
	img := solidRaster(6, 6, 77, 88, 99)

	m, err := NewMatcher(img, img, 2)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	defer m.Close()

	if err := m.Stereo(context.Background(), 1, 1.0, 2, 10, 3); err != nil {
		t.Fatalf("Stereo: %v", err)
	}

	for c := 0; c < 6; c++ {
		pattern := m.MatchPattern(c)
		if pattern[0] != Unmatched {
			t.Errorf("scanline %d: pattern[0] = %d, want Unmatched", c, pattern[0])
		}
		for x := 1; x < 6; x++ {
			if pattern[x] != x {
				t.Errorf("scanline %d: pattern[%d] = %d, want %d", c, x, pattern[x], x)
			}
		}
	}
}

// TestMatcher_StereoDeterministic is the determinism testable property:
// two runs over the same inputs and parameters must produce identical
// MatchPatterns.
func TestMatcher_StereoDeterministic(t *testing.T) {
	input := checkerRaster(8, 8)
	refer := checkerRaster(8, 8)

	run := func() [][]int {
		m, err := NewMatcher(input, refer, 3)
		if err != nil {
			t.Fatalf("NewMatcher: %v", err)
		}
		defer m.Close()

		if err := m.Stereo(context.Background(), 2, 1.0, 3, 15, 4); err != nil {
			t.Fatalf("Stereo: %v", err)
		}

		out := make([][]int, 8)
		for c := range out {
			p := m.MatchPattern(c)
			cp := make([]int, len(p))
			copy(cp, p)
			out[c] = cp
		}
		return out
	}

	first := run()
	second := run()

	for c := range first {
		for x := range first[c] {
			if first[c][x] != second[c][x] {
				t.Errorf("non-deterministic result at scanline %d, x=%d: %d vs %d", c, x, first[c][x], second[c][x])
			}
		}
	}
}

func checkerRaster(w, h int) *Raster {
	r := NewRaster(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				r.SetPixelAt(x, y, 200, 200, 200)
			} else {
				r.SetPixelAt(x, y, 40, 40, 40)
			}
		}
	}
	return r
}
