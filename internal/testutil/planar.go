package testutil

import (
	"math"
	"testing"
)

// SilentBlock returns a planar float32 block of zeros.
func SilentBlock(channels, n int) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, n)
	}
	return out
}

// CloneBlock deep-copies a planar float32 block.
func CloneBlock(b [][]float32) [][]float32 {
	out := make([][]float32, len(b))
	for ch := range b {
		out[ch] = append([]float32(nil), b[ch]...)
	}
	return out
}

// Planar32 narrows each float64 channel to float32.
func Planar32(channels ...[]float64) [][]float32 {
	out := make([][]float32, len(channels))
	for ch, x := range channels {
		out[ch] = make([]float32, len(x))
		for i, v := range x {
			out[ch][i] = float32(v)
		}
	}
	return out
}

// BlockRMS returns the RMS over all samples of all channels.
func BlockRMS(b [][]float32) float64 {
	var sum float64
	var n int
	for _, ch := range b {
		for _, x := range ch {
			sum += float64(x) * float64(x)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// RequireFiniteBlock fails t if any sample of b is NaN or Inf.
func RequireFiniteBlock(t *testing.T, b [][]float32) {
	t.Helper()
	for ch := range b {
		for i, x := range b[ch] {
			v := float64(x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("channel %d index %d: non-finite value %v", ch, i, v)
			}
		}
	}
}

// RequireBlockEqual fails t unless got and want are bit-identical.
func RequireBlockEqual(t *testing.T, got, want [][]float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("channel count mismatch: got %d, want %d", len(got), len(want))
	}
	for ch := range got {
		if len(got[ch]) != len(want[ch]) {
			t.Fatalf("channel %d length mismatch: got %d, want %d", ch, len(got[ch]), len(want[ch]))
		}
		for i := range got[ch] {
			if math.Float32bits(got[ch][i]) != math.Float32bits(want[ch][i]) {
				t.Fatalf("channel %d index %d: got %v, want %v", ch, i, got[ch][i], want[ch][i])
			}
		}
	}
}
