package effects

import (
	"fmt"
	"math"
)

const (
	// TransparentBitDepth is the depth at and above which BitCrusher passes
	// samples through unchanged.
	TransparentBitDepth = 24.0

	defaultBitCrusherBitDepth = TransparentBitDepth
	minBitCrusherBitDepth     = 1.0
	maxBitCrusherBitDepth     = 32.0
)

// QuantizationStep returns the grid spacing 2 / 2^bitDepth for a signal in
// [-1, 1]. bitDepth is floored at 1.
func QuantizationStep(bitDepth float64) float64 {
	if bitDepth < minBitCrusherBitDepth || math.IsNaN(bitDepth) {
		bitDepth = minBitCrusherBitDepth
	}
	return 2 / math.Pow(2, bitDepth)
}

// Quantize rounds x to the nearest multiple of step. A non-positive or
// non-finite step returns x unchanged.
func Quantize(x, step float64) float64 {
	if !(step > 0) || math.IsInf(step, 0) {
		return x
	}
	return math.Round(x/step) * step
}

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig) error

type bitCrusherConfig struct {
	bitDepth float64
}

func defaultBitCrusherConfig() bitCrusherConfig {
	return bitCrusherConfig{bitDepth: defaultBitCrusherBitDepth}
}

// WithBitCrusherBitDepth sets the initial bit depth.
// Fractional values are supported for smooth parameter sweeps.
// Range: [1, 32].
func WithBitCrusherBitDepth(bitDepth float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if bitDepth < minBitCrusherBitDepth || bitDepth > maxBitCrusherBitDepth ||
			math.IsNaN(bitDepth) || math.IsInf(bitDepth, 0) {
			return fmt.Errorf("bit crusher bit depth must be in [%g, %g]: %f",
				minBitCrusherBitDepth, maxBitCrusherBitDepth, bitDepth)
		}
		cfg.bitDepth = bitDepth
		return nil
	}
}

// BitCrusher reduces amplitude resolution by snapping samples to a grid of
// spacing [QuantizationStep](BitDepth). The input is assumed to be in
// [-1, 1]; values outside are quantized but not clipped. At
// [TransparentBitDepth] and above the crusher is an identity.
type BitCrusher struct {
	bitDepth float64
	step     float64
}

// NewBitCrusher creates a bit crusher with optional configuration overrides.
func NewBitCrusher(opts ...BitCrusherOption) (*BitCrusher, error) {
	cfg := defaultBitCrusherConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	bc := &BitCrusher{}
	bc.SetBitDepth(cfg.bitDepth)
	return bc, nil
}

// SetBitDepth updates the quantization depth. Values are clamped to
// [1, 32]; NaN is ignored.
func (bc *BitCrusher) SetBitDepth(bitDepth float64) {
	if math.IsNaN(bitDepth) {
		return
	}
	bitDepth = math.Max(minBitCrusherBitDepth, math.Min(maxBitCrusherBitDepth, bitDepth))
	if bitDepth == bc.bitDepth && bc.step > 0 {
		return
	}
	bc.bitDepth = bitDepth
	bc.step = QuantizationStep(bitDepth)
}

// BitDepth returns the current bit depth.
func (bc *BitCrusher) BitDepth() float64 { return bc.bitDepth }

// Step returns the current quantization step.
func (bc *BitCrusher) Step() float64 { return bc.step }

// Transparent reports whether the crusher currently passes samples through.
func (bc *BitCrusher) Transparent() bool { return bc.bitDepth >= TransparentBitDepth }

// ProcessSample quantizes one sample.
func (bc *BitCrusher) ProcessSample(x float64) float64 {
	if bc.Transparent() {
		return x
	}
	return Quantize(x, bc.step)
}

// ProcessInPlace quantizes buf in place.
func (bc *BitCrusher) ProcessInPlace(buf []float64) {
	if bc.Transparent() {
		return
	}
	step := bc.step
	for i, x := range buf {
		buf[i] = math.Round(x/step) * step
	}
}
