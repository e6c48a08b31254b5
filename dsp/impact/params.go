package impact

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-impact/dsp/core"
	"github.com/cwbudde/algo-impact/dsp/effects"
	"github.com/cwbudde/algo-impact/dsp/effects/spatial"
	"github.com/cwbudde/algo-impact/dsp/filter/biquad"
	"github.com/cwbudde/algo-impact/dsp/filter/design"
)

// Macro parameter range.
const (
	MinImpact = 0.0
	MaxImpact = 100.0
)

// ErrInvalidCurves is returned by [Curves.Validate] and [WithCurves].
var ErrInvalidCurves = errors.New("impact: invalid curves")

// StageParams is the snapshot of stage settings derived from one normalized
// impact value.
type StageParams struct {
	CutoffHz      float64
	TransientGain float64
	BitDepth      float64
	QuantStep     float64
	PanDepth      float64
	ReverbWet     float64
	ReverbDry     float64
	DelayWet      float64
	DelayFeedback float64
	MakeupGain    float64
}

// Curves maps normalized impact to stage parameters. Every curve is a
// linear interpolation between its value at 0 and at 1.
type Curves struct {
	MinCutoffHz float64
	MaxCutoffHz float64
	// FilterOrder is 1 for a one-pole high-pass or 2 for a Butterworth biquad.
	FilterOrder int

	MinTransientGain float64

	MaxBitDepth float64
	MinBitDepth float64

	PanDepthMax float64
	PanLaw      spatial.PanLaw

	ReverbWetMax float64
	ReverbDry    effects.ReverbDryLaw

	DelayWetMax      float64
	DelayFeedbackMax float64
	DelayMix         effects.MixLaw

	// MakeupThreshold is the normalized impact above which makeup gain
	// ramps from 0 dB up to MakeupMaxDB at impact 1. MakeupMaxDB of 0
	// disables makeup.
	MakeupThreshold float64
	MakeupMaxDB     float64
}

// Normalize maps an impact value to [0, 1]. NaN maps to 0.
func Normalize(impact float64) float64 {
	if math.IsNaN(impact) {
		return 0
	}
	return core.Clamp(impact/MaxImpact, 0, 1)
}

// DeriveStageParameters derives stage parameters with the default variant.
func DeriveStageParameters(normalized float64) StageParams {
	return DefaultVariant.Curves().Derive(normalized)
}

// Derive returns the stage parameters for normalized impact (clamped to
// [0, 1]).
func (c Curves) Derive(normalized float64) StageParams {
	n := clampUnit(normalized)
	bits := c.BitDepth(n)
	wet := c.ReverbWet(n)

	return StageParams{
		CutoffHz:      c.CutoffHz(n),
		TransientGain: c.TransientGain(n),
		BitDepth:      bits,
		QuantStep:     effects.QuantizationStep(bits),
		PanDepth:      c.PanDepth(n),
		ReverbWet:     wet,
		ReverbDry:     c.ReverbDry.Dry(wet),
		DelayWet:      c.DelayWet(n),
		DelayFeedback: c.DelayFeedback(n),
		MakeupGain:    c.MakeupGain(n),
	}
}

// CutoffHz returns the high-pass cutoff.
func (c Curves) CutoffHz(n float64) float64 {
	return core.Lerp(c.MinCutoffHz, c.MaxCutoffHz, clampUnit(n))
}

// TransientGain returns the linear transient attenuation.
func (c Curves) TransientGain(n float64) float64 {
	return core.Lerp(1, c.MinTransientGain, clampUnit(n))
}

// BitDepth returns the quantizer depth, floored at 1 bit.
func (c Curves) BitDepth(n float64) float64 {
	return math.Max(1, core.Lerp(c.MaxBitDepth, c.MinBitDepth, clampUnit(n)))
}

// PanDepth returns the auto-pan depth.
func (c Curves) PanDepth(n float64) float64 {
	return c.PanDepthMax * clampUnit(n)
}

// ReverbWet returns the reverb wet level.
func (c Curves) ReverbWet(n float64) float64 {
	return c.ReverbWetMax * clampUnit(n)
}

// DelayWet returns the delay wet level.
func (c Curves) DelayWet(n float64) float64 {
	return c.DelayWetMax * clampUnit(n)
}

// DelayFeedback returns the delay feedback gain.
func (c Curves) DelayFeedback(n float64) float64 {
	return c.DelayFeedbackMax * clampUnit(n)
}

// MakeupGain returns the linear output makeup gain.
func (c Curves) MakeupGain(n float64) float64 {
	n = clampUnit(n)
	if c.MakeupMaxDB == 0 || n <= c.MakeupThreshold {
		return 1
	}
	t := (n - c.MakeupThreshold) / (1 - c.MakeupThreshold)
	return core.DBToLinear(c.MakeupMaxDB * t)
}

// HasMakeup reports whether the curves apply any makeup gain.
func (c Curves) HasMakeup() bool { return c.MakeupMaxDB != 0 }

// FilterCoefficients designs the high-pass for cutoff at sampleRate.
func (c Curves) FilterCoefficients(cutoffHz, sampleRate float64) biquad.Coefficients {
	return design.HighpassOrder(c.FilterOrder, cutoffHz, sampleRate)
}

// Validate checks that every curve is finite, monotonic and keeps the delay
// feedback strictly below 1.
func (c Curves) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"min cutoff", c.MinCutoffHz},
		{"max cutoff", c.MaxCutoffHz},
		{"min transient gain", c.MinTransientGain},
		{"max bit depth", c.MaxBitDepth},
		{"min bit depth", c.MinBitDepth},
		{"pan depth max", c.PanDepthMax},
		{"reverb wet max", c.ReverbWetMax},
		{"delay wet max", c.DelayWetMax},
		{"delay feedback max", c.DelayFeedbackMax},
		{"makeup threshold", c.MakeupThreshold},
		{"makeup max dB", c.MakeupMaxDB},
	}
	for _, f := range fields {
		if !core.IsFinite(f.v) {
			return fmt.Errorf("%w: %s must be finite: %f", ErrInvalidCurves, f.name, f.v)
		}
	}

	switch {
	case c.MinCutoffHz <= 0 || c.MaxCutoffHz < c.MinCutoffHz:
		return fmt.Errorf("%w: cutoff range must be 0 < min <= max: [%g, %g]",
			ErrInvalidCurves, c.MinCutoffHz, c.MaxCutoffHz)
	case c.FilterOrder != 1 && c.FilterOrder != 2:
		return fmt.Errorf("%w: filter order must be 1 or 2: %d", ErrInvalidCurves, c.FilterOrder)
	case c.MinTransientGain < 0 || c.MinTransientGain > 1:
		return fmt.Errorf("%w: min transient gain must be in [0, 1]: %f", ErrInvalidCurves, c.MinTransientGain)
	case c.MinBitDepth < 1 || c.MaxBitDepth < c.MinBitDepth || c.MaxBitDepth > 32:
		return fmt.Errorf("%w: bit depth range must be 1 <= min <= max <= 32: [%g, %g]",
			ErrInvalidCurves, c.MinBitDepth, c.MaxBitDepth)
	case c.PanDepthMax < 0 || c.PanDepthMax > 1:
		return fmt.Errorf("%w: pan depth max must be in [0, 1]: %f", ErrInvalidCurves, c.PanDepthMax)
	case c.PanLaw != spatial.PanLinear && c.PanLaw != spatial.PanEqualPower:
		return fmt.Errorf("%w: unknown pan law: %d", ErrInvalidCurves, c.PanLaw)
	case c.ReverbWetMax < 0 || c.ReverbWetMax > 1:
		return fmt.Errorf("%w: reverb wet max must be in [0, 1]: %f", ErrInvalidCurves, c.ReverbWetMax)
	case c.ReverbDry != effects.ReverbDryConstant && c.ReverbDry != effects.ReverbDryComplementary:
		return fmt.Errorf("%w: unknown reverb dry law: %d", ErrInvalidCurves, c.ReverbDry)
	case c.DelayWetMax < 0 || c.DelayWetMax > 1:
		return fmt.Errorf("%w: delay wet max must be in [0, 1]: %f", ErrInvalidCurves, c.DelayWetMax)
	case c.DelayFeedbackMax < 0 || c.DelayFeedbackMax >= 1:
		return fmt.Errorf("%w: delay feedback max must be in [0, 1): %f", ErrInvalidCurves, c.DelayFeedbackMax)
	case c.DelayMix != effects.MixAdditive && c.DelayMix != effects.MixCrossfade:
		return fmt.Errorf("%w: unknown delay mix law: %d", ErrInvalidCurves, c.DelayMix)
	case c.MakeupThreshold < 0 || c.MakeupThreshold >= 1:
		return fmt.Errorf("%w: makeup threshold must be in [0, 1): %f", ErrInvalidCurves, c.MakeupThreshold)
	case c.MakeupMaxDB < 0 || c.MakeupMaxDB > 12:
		return fmt.Errorf("%w: makeup max must be in [0, 12] dB: %f", ErrInvalidCurves, c.MakeupMaxDB)
	}
	return nil
}

func clampUnit(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return core.Clamp(n, 0, 1)
}
