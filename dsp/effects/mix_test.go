package effects

import "testing"

func TestMixLaws(t *testing.T) {
	tests := []struct {
		law    MixLaw
		dry    float64
		wet    float64
		amount float64
		want   float64
	}{
		{MixAdditive, 1, 0.5, 0, 1},
		{MixAdditive, 1, 0.5, 1, 1.5},
		{MixAdditive, 0.2, 1, 0.4, 0.6},
		{MixCrossfade, 1, 0.5, 0, 1},
		{MixCrossfade, 1, 0.5, 1, 0.5},
		{MixCrossfade, 1, 0, 0.25, 0.75},
	}
	for _, tc := range tests {
		if got := tc.law.Mix(tc.dry, tc.wet, tc.amount); got != tc.want {
			t.Fatalf("%s.Mix(%g, %g, %g) = %g, want %g", tc.law, tc.dry, tc.wet, tc.amount, got, tc.want)
		}
	}
}

func TestReverbDryLaws(t *testing.T) {
	if got := ReverbDryConstant.Dry(0.5); got != 1 {
		t.Fatalf("constant dry = %g, want 1", got)
	}
	if got := ReverbDryComplementary.Dry(0.25); got != 0.75 {
		t.Fatalf("complementary dry = %g, want 0.75", got)
	}
	if got := ReverbDryComplementary.Dry(0); got != 1 {
		t.Fatalf("complementary dry at zero wet = %g, want 1", got)
	}
}
