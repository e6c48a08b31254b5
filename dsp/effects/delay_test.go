package effects

import (
	"math"
	"testing"
)

func TestFeedbackDelayImpulseEchoes(t *testing.T) {
	const sampleRate = 8000.0

	d, err := NewFeedbackDelay(sampleRate, 2,
		WithFeedbackDelayWet(1),
		WithFeedbackDelayFeedback(0.5),
	)
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}

	delaySamples := d.DelaySamples()
	if delaySamples != 1000 {
		t.Fatalf("DelaySamples()=%d, want 1000", delaySamples)
	}

	const echoes = 6
	n := (echoes + 1) * delaySamples
	left := make([]float64, n+1)
	right := make([]float64, n+1)
	left[0], right[0] = 1, 1

	frame := make([]float64, 2)
	for i := range left {
		frame[0], frame[1] = left[i], right[i]
		d.ProcessFrame(frame)
		left[i], right[i] = frame[0], frame[1]
	}

	for k := range echoes {
		idx := (k + 1) * delaySamples
		want := math.Pow(0.5, float64(k))
		if diff := math.Abs(left[idx] - want); diff > 1e-12 {
			t.Fatalf("echo %d left: got=%g want=%g", k, left[idx], want)
		}
		if diff := math.Abs(right[idx] - want); diff > 1e-12 {
			t.Fatalf("echo %d right: got=%g want=%g", k, right[idx], want)
		}
		if left[idx-1] != 0 || left[idx+1] != 0 {
			t.Fatalf("echo %d not isolated: %g %g", k, left[idx-1], left[idx+1])
		}
	}
}

func TestFeedbackDelayCrossfade(t *testing.T) {
	d, err := NewFeedbackDelay(1000, 1,
		WithFeedbackDelayTime(0.004),
		WithFeedbackDelayWet(0.25),
		WithFeedbackDelayMixLaw(MixCrossfade),
	)
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}

	buf := make([]float64, 8)
	buf[0] = 1
	d.ProcessInPlace(buf)

	want := []float64{0.75, 0, 0, 0, 0.25, 0, 0, 0}
	for i := range buf {
		if diff := math.Abs(buf[i] - want[i]); diff > 1e-12 {
			t.Fatalf("sample %d: got=%g want=%g", i, buf[i], want[i])
		}
	}
}

func TestFeedbackDelayStereoRampMatchesFrames(t *testing.T) {
	d1, err := NewFeedbackDelay(1000, 2, WithFeedbackDelayTime(0.01))
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}
	d2, err := NewFeedbackDelay(1000, 2, WithFeedbackDelayTime(0.01))
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}

	const n = 64
	left := make([]float64, n)
	right := make([]float64, n)
	wet := make([]float64, n)
	fb := make([]float64, n)
	for i := range n {
		left[i] = math.Sin(float64(i) * 0.3)
		right[i] = math.Cos(float64(i) * 0.2)
		wet[i] = 0.4 * float64(i) / n
		fb[i] = 0.75 * float64(i) / n
	}

	wantL := append([]float64(nil), left...)
	wantR := append([]float64(nil), right...)
	frame := make([]float64, 2)
	for i := range n {
		frame[0], frame[1] = wantL[i], wantR[i]
		d1.processFrame(frame, wet[i], fb[i])
		wantL[i], wantR[i] = frame[0], frame[1]
	}

	d2.ProcessStereoRamp(left, right, wet, fb)

	for i := range n {
		if left[i] != wantL[i] || right[i] != wantR[i] {
			t.Fatalf("sample %d mismatch: got=(%g,%g) want=(%g,%g)", i, left[i], right[i], wantL[i], wantR[i])
		}
	}
}

func TestFeedbackDelayRejectsUnstableFeedback(t *testing.T) {
	d, err := NewFeedbackDelay(44100, 2)
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}
	for _, v := range []float64{1, 1.5, -0.1, math.NaN()} {
		if err := d.SetFeedback(v); err == nil {
			t.Fatalf("SetFeedback(%f) expected error", v)
		}
	}
	if _, err := NewFeedbackDelay(44100, 2, WithFeedbackDelayFeedback(1)); err == nil {
		t.Fatalf("expected error for feedback 1")
	}
}

func TestFeedbackDelayCapacity(t *testing.T) {
	d, err := NewFeedbackDelay(44100, 2)
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}
	if d.Capacity() != 88200 {
		t.Fatalf("Capacity()=%d, want 88200", d.Capacity())
	}
	if d.DelaySamples() != 5512 {
		t.Fatalf("DelaySamples()=%d, want 5512", d.DelaySamples())
	}
	if err := d.SetTime(2.5); err == nil {
		t.Fatalf("expected error for time beyond capacity")
	}
	if _, err := NewFeedbackDelay(44100, 2, WithFeedbackDelayTime(3)); err == nil {
		t.Fatalf("expected error for time beyond capacity")
	}
}

func TestFeedbackDelayResetClearsEchoes(t *testing.T) {
	d, err := NewFeedbackDelay(1000, 1,
		WithFeedbackDelayTime(0.002),
		WithFeedbackDelayWet(1),
		WithFeedbackDelayFeedback(0.5),
	)
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}

	buf := []float64{1, 0, 0}
	d.ProcessInPlace(buf)
	d.Reset()

	silent := make([]float64, 16)
	d.ProcessInPlace(silent)
	for i, v := range silent {
		if v != 0 {
			t.Fatalf("sample %d after reset: got=%g want=0", i, v)
		}
	}
}

func TestFeedbackDelayDecaySeconds(t *testing.T) {
	d, err := NewFeedbackDelay(1000, 1, WithFeedbackDelayTime(0.1))
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}
	if got := d.DecaySeconds(0); got != 0.1 {
		t.Fatalf("DecaySeconds(0)=%g, want 0.1", got)
	}
	if got := d.DecaySeconds(0.5); got <= 1 {
		t.Fatalf("DecaySeconds(0.5)=%g, want > 1", got)
	}
	if !math.IsInf(d.DecaySeconds(1), 1) {
		t.Fatalf("DecaySeconds(1) should be +Inf")
	}
}
