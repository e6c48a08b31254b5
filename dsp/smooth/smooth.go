package smooth

import "math"

// snapThreshold is the distance at which the value lands exactly on target.
const snapThreshold = 1e-6

// Value is a one-pole exponentially smoothed scalar.
//
// The zero Value jumps immediately to every target until [Value.Reset] sets a
// smoothing time.
type Value struct {
	current float64
	target  float64
	coef    float64

	sampleRate float64
	seconds    float64
}

// New returns a Value prepared for sampleRate with the given time constant.
func New(sampleRate, smoothingSeconds float64) *Value {
	v := &Value{}
	v.Reset(sampleRate, smoothingSeconds)
	return v
}

// Reset derives the per-sample coefficient from sampleRate and the time
// constant smoothingSeconds. After one time constant the remaining distance
// to target has decayed to 1/e. A non-positive or non-finite time (or sample
// rate) makes the value jump to its target. Current and target are kept.
func (v *Value) Reset(sampleRate, smoothingSeconds float64) {
	v.sampleRate = sampleRate
	v.seconds = smoothingSeconds

	samples := sampleRate * smoothingSeconds
	if samples <= 0 || math.IsNaN(samples) || math.IsInf(samples, 0) {
		v.coef = 1
		return
	}
	v.coef = 1 - mathExp(-1/samples)
	if v.coef <= 0 || v.coef > 1 || math.IsNaN(v.coef) {
		v.coef = 1
	}
}

// SetTarget sets the value the smoother converges to. Current is untouched.
func (v *Value) SetTarget(target float64) {
	v.target = target
}

// SetCurrentAndTarget jumps to value without smoothing.
func (v *Value) SetCurrentAndTarget(value float64) {
	v.current = value
	v.target = value
}

// Tick advances one sample and returns the new current value.
func (v *Value) Tick() float64 {
	if v.current == v.target {
		return v.current
	}

	v.current += (v.target - v.current) * v.coef
	if math.Abs(v.target-v.current) < snapThreshold {
		v.current = v.target
	}
	return v.current
}

// Skip advances n samples and returns the resulting current value.
func (v *Value) Skip(n int) float64 {
	for i := 0; i < n && v.current != v.target; i++ {
		v.Tick()
	}
	return v.current
}

// Current returns the last computed value without advancing.
func (v *Value) Current() float64 { return v.current }

// Target returns the convergence target.
func (v *Value) Target() float64 { return v.target }

// IsSmoothing reports whether current has not yet reached target.
func (v *Value) IsSmoothing() bool { return v.current != v.target }

// SampleRate returns the sample rate passed to the last Reset.
func (v *Value) SampleRate() float64 { return v.sampleRate }

// SmoothingSeconds returns the time constant passed to the last Reset.
func (v *Value) SmoothingSeconds() float64 { return v.seconds }
