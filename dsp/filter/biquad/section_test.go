package biquad

import (
	"math"
	"testing"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func tracedCoeffs() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	st := s.State()
	if st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSample_Passthrough(t *testing.T) {
	s := NewSection(Passthrough())
	input := []float64{1, 0, -1, 0.5, 0.25}
	for i, x := range input {
		y := s.ProcessSample(x)
		if !almostEqual(y, x, eps) {
			t.Errorf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// Hand-traced with x = [1, 0, 0, 0]:
	// n=0: y=0.25,  d0=0.55,  d1=0.24
	// n=1: y=0.55,  d0=0.35,  d1=-0.022
	// n=2: y=0.35,  d0=0.048, d1=-0.014
	// n=3: y=0.048
	s := NewSection(tracedCoeffs())

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}
		y := s.ProcessSample(x)
		if !almostEqual(y, w, eps) {
			t.Fatalf("n=%d: got %v, want %v", i, y, w)
		}
	}
}

func TestProcessBlock_MatchesSample(t *testing.T) {
	ref := NewSection(tracedCoeffs())
	blk := NewSection(tracedCoeffs())

	buf := make([]float64, 257)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * float64(i) / 19)
	}
	want := make([]float64, len(buf))
	for i, x := range buf {
		want[i] = ref.ProcessSample(x)
	}

	blk.ProcessBlock(buf)
	for i := range buf {
		if !almostEqual(buf[i], want[i], eps) {
			t.Fatalf("sample %d: got %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestSetCoefficientsKeepsState(t *testing.T) {
	s := NewSection(tracedCoeffs())
	s.ProcessSample(1)
	before := s.State()

	s.SetCoefficients(Passthrough())
	if s.State() != before {
		t.Fatalf("state changed: got %v, want %v", s.State(), before)
	}
	if s.Coefficients != Passthrough() {
		t.Fatalf("coefficients not updated: %v", s.Coefficients)
	}
}

func TestReset(t *testing.T) {
	s := NewSection(tracedCoeffs())
	s.ProcessSample(1)
	s.ProcessSample(0.5)
	s.Reset()
	if s.State() != [2]float64{0, 0} {
		t.Fatalf("state after reset: %v", s.State())
	}
}

func TestState_SaveRestore(t *testing.T) {
	s := NewSection(tracedCoeffs())
	s.ProcessSample(1)
	saved := s.State()
	a := s.ProcessSample(0.3)

	s.SetState(saved)
	b := s.ProcessSample(0.3)
	if !almostEqual(a, b, eps) {
		t.Fatalf("restore mismatch: %v vs %v", a, b)
	}
}

func TestIsStable(t *testing.T) {
	if !tracedCoeffs().IsStable() {
		t.Fatal("traced coefficients should be stable")
	}
	if (Coefficients{B0: 1, A1: -2.1, A2: 1.05}).IsStable() {
		t.Fatal("poles outside unit circle reported stable")
	}
}

func TestImpulseResponseDoesNotModifyState(t *testing.T) {
	s := NewSection(tracedCoeffs())
	s.ProcessSample(0.7)
	before := s.State()

	ir := s.ImpulseResponse(4)
	if s.State() != before {
		t.Fatalf("state modified: got %v, want %v", s.State(), before)
	}
	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i := range want {
		if !almostEqual(ir[i], want[i], eps) {
			t.Fatalf("ir[%d] = %v, want %v", i, ir[i], want[i])
		}
	}
}

func TestMagnitudeSquaredMatchesResponse(t *testing.T) {
	c := tracedCoeffs()
	for _, f := range []float64{20, 200, 1000, 5000, 20000} {
		h := c.Response(f, 48000)
		want := real(h)*real(h) + imag(h)*imag(h)
		got := c.MagnitudeSquared(f, 48000)
		if !almostEqual(got, want, 1e-9) {
			t.Fatalf("f=%g: got %v, want %v", f, got, want)
		}
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	s := NewSection(tracedCoeffs())
	buf := make([]float64, 512)
	for i := range buf {
		buf[i] = float64(i) * 0.001
	}
	b.SetBytes(int64(len(buf) * 8))
	b.ReportAllocs()
	for b.Loop() {
		s.ProcessBlock(buf)
	}
}
