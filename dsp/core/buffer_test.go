package core

import (
	"math"
	"testing"
)

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestWidenNarrowRoundTrip(t *testing.T) {
	src := []float32{0.5, -0.25, 1, -1}
	wide := make([]float64, len(src))

	if n := Widen(wide, src); n != len(src) {
		t.Fatalf("Widen() n = %d, want %d", n, len(src))
	}

	back := make([]float32, len(src))
	if n := Narrow(back, wide); n != len(src) {
		t.Fatalf("Narrow() n = %d, want %d", n, len(src))
	}

	for i := range src {
		if back[i] != src[i] {
			t.Fatalf("index %d: got %v, want %v", i, back[i], src[i])
		}
	}
}

func TestWidenSanitizesNonFinite(t *testing.T) {
	src := []float32{float32(math.NaN()), float32(math.Inf(1)), 0.25}
	dst := make([]float64, len(src))
	Widen(dst, src)

	want := []float64{0, 0, 0.25}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestNarrowSanitizesNonFinite(t *testing.T) {
	src := []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e-40, 0.5}
	dst := make([]float32, len(src))
	Narrow(dst, src)

	want := []float32{0, 0, 0, 0, 0.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestWidenShorterDestination(t *testing.T) {
	dst := make([]float64, 2)
	if n := Widen(dst, []float32{1, 2, 3}); n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("unexpected dst: %#v", dst)
	}
}
