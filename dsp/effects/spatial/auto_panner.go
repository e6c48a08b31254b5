package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-impact/dsp/effects/modulation"
)

// AutoPannerOption mutates auto-panner construction parameters.
type AutoPannerOption func(*autoPannerConfig) error

type autoPannerConfig struct {
	law   PanLaw
	depth float64
}

// WithAutoPannerLaw selects the pan law.
func WithAutoPannerLaw(law PanLaw) AutoPannerOption {
	return func(cfg *autoPannerConfig) error {
		if law != PanLinear && law != PanEqualPower {
			return fmt.Errorf("auto panner law unknown: %d", law)
		}
		cfg.law = law
		return nil
	}
}

// WithAutoPannerDepth sets the initial pan depth in [0, 1].
func WithAutoPannerDepth(depth float64) AutoPannerOption {
	return func(cfg *autoPannerConfig) error {
		if depth < 0 || depth > 1 || math.IsNaN(depth) {
			return fmt.Errorf("auto panner depth must be in [0, 1]: %f", depth)
		}
		cfg.depth = depth
		return nil
	}
}

// AutoPanner moves a stereo signal between channels following an LFO.
// The pan position for each sample is lfo*depth. The equal-power law is
// scaled by √2 so that depth 0 leaves both channels at unity gain.
type AutoPanner struct {
	law   PanLaw
	depth float64
	norm  float64
	lfo   *modulation.LFO
}

// NewAutoPanner creates an auto-panner driven by lfo.
func NewAutoPanner(lfo *modulation.LFO, opts ...AutoPannerOption) (*AutoPanner, error) {
	if lfo == nil {
		return nil, fmt.Errorf("auto panner requires an lfo")
	}

	cfg := autoPannerConfig{law: PanLinear}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	p := &AutoPanner{lfo: lfo, depth: cfg.depth}
	p.SetLaw(cfg.law)
	return p, nil
}

// SetLaw selects the pan law.
func (p *AutoPanner) SetLaw(law PanLaw) {
	p.law = law
	p.norm = 1
	if law == PanEqualPower {
		p.norm = math.Sqrt2
	}
}

// SetDepth sets the pan depth, clamped to [0, 1].
func (p *AutoPanner) SetDepth(depth float64) {
	if math.IsNaN(depth) {
		return
	}
	p.depth = math.Max(0, math.Min(1, depth))
}

// Gains returns the channel gains for an LFO value at the given depth.
func (p *AutoPanner) Gains(lfo, depth float64) (left, right float64) {
	left, right = PanGains(lfo*depth, p.law)
	return left * p.norm, right * p.norm
}

// ProcessSample pans one stereo frame with the current depth and advances
// the LFO.
func (p *AutoPanner) ProcessSample(left, right float64) (float64, float64) {
	gl, gr := p.Gains(p.lfo.Next(), p.depth)
	return left * gl, right * gr
}

// ProcessStereo pans left and right in place with the current depth.
func (p *AutoPanner) ProcessStereo(left, right []float64) {
	n := min(len(left), len(right))
	for i := range n {
		left[i], right[i] = p.ProcessSample(left[i], right[i])
	}
}

// ProcessStereoRamp pans left and right in place with a per-sample depth
// ramp, advancing the LFO once per sample.
func (p *AutoPanner) ProcessStereoRamp(left, right, depth []float64) {
	n := min(len(left), len(right), len(depth))
	for i := range n {
		gl, gr := p.Gains(p.lfo.Next(), depth[i])
		left[i] *= gl
		right[i] *= gr
	}
	if n > 0 {
		p.depth = depth[n-1]
	}
}

// Reset rewinds the LFO.
func (p *AutoPanner) Reset() { p.lfo.Reset() }

// Law returns the pan law.
func (p *AutoPanner) Law() PanLaw { return p.law }

// Depth returns the current pan depth.
func (p *AutoPanner) Depth() float64 { return p.depth }

// LFO returns the modulation source.
func (p *AutoPanner) LFO() *modulation.LFO { return p.lfo }
