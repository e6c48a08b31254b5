package effects

import (
	"math"
	"testing"
)

func TestTransientGainProcessInPlaceMatchesSample(t *testing.T) {
	g, err := NewTransientGain(0.5)
	if err != nil {
		t.Fatalf("NewTransientGain() error = %v", err)
	}

	input := make([]float64, 67)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * float64(i) / 19)
	}

	got := make([]float64, len(input))
	copy(got, input)
	g.ProcessInPlace(got)

	for i := range got {
		want := g.ProcessSample(input[i])
		if diff := math.Abs(got[i] - want); diff > 1e-12 {
			t.Fatalf("sample %d mismatch: got=%g want=%g diff=%g", i, got[i], want, diff)
		}
	}
}

func TestTransientGainRamp(t *testing.T) {
	g, err := NewTransientGain(1)
	if err != nil {
		t.Fatalf("NewTransientGain() error = %v", err)
	}

	buf := []float64{1, 1, 1, 1, 1}
	gains := []float64{1, 0.875, 0.75, 0.625}
	g.ProcessRamp(buf, gains)

	want := []float64{1, 0.875, 0.75, 0.625, 1}
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("sample %d: got=%g want=%g", i, buf[i], want[i])
		}
	}
}

func TestTransientGainRejectsInvalid(t *testing.T) {
	for _, v := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if _, err := NewTransientGain(v); err == nil {
			t.Fatalf("NewTransientGain(%f) expected error", v)
		}
	}
}
