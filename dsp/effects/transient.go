package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// TransientGain attenuates a signal by a linear gain. It has no state; the
// gain can be static or supplied per sample as a ramp.
type TransientGain struct {
	gain float64
}

// NewTransientGain returns a gain stage. gain must be >= 0 and finite.
func NewTransientGain(gain float64) (*TransientGain, error) {
	t := &TransientGain{}
	if err := t.SetGain(gain); err != nil {
		return nil, err
	}
	return t, nil
}

// SetGain sets the static linear gain.
func (t *TransientGain) SetGain(gain float64) error {
	if gain < 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return fmt.Errorf("transient gain must be >= 0 and finite: %f", gain)
	}
	t.gain = gain
	return nil
}

// Gain returns the static linear gain.
func (t *TransientGain) Gain() float64 { return t.gain }

// ProcessSample applies the static gain to one sample.
func (t *TransientGain) ProcessSample(x float64) float64 {
	return x * t.gain
}

// ProcessInPlace applies the static gain to buf.
func (t *TransientGain) ProcessInPlace(buf []float64) {
	if t.gain == 1 {
		return
	}
	vecmath.ScaleBlock(buf, buf, t.gain)
}

// ProcessRamp multiplies buf by gains sample by sample. Samples beyond
// len(gains) are left untouched.
func (t *TransientGain) ProcessRamp(buf, gains []float64) {
	n := min(len(buf), len(gains))
	vecmath.MulBlockInPlace(buf[:n], gains[:n])
}
