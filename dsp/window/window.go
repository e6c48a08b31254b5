// Package window provides analysis window functions for the spectral
// measurements in measure/.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window shape.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// ErrLengthMismatch is returned when samples and coefficients differ in length.
var ErrLengthMismatch = errors.New("window: length mismatch")

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	case TypeBlackman:
		return "blackman"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic generates the periodic (DFT-even) form, suited to spectral
// analysis of consecutive frames.
func WithPeriodic() Option {
	return func(cfg *config) { cfg.periodic = true }
}

// Generate returns length coefficients of window t.
func Generate(t Type, length int, opts ...Option) ([]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("window length must be > 0: %d", length)
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out, nil
	}

	den := float64(length - 1)
	if cfg.periodic {
		den = float64(length)
	}
	for n := range out {
		x := 2 * math.Pi * float64(n) / den
		switch t {
		case TypeHann:
			out[n] = 0.5 - 0.5*math.Cos(x)
		case TypeHamming:
			out[n] = 0.54 - 0.46*math.Cos(x)
		case TypeBlackman:
			out[n] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
		default:
			out[n] = 1
		}
	}
	return out, nil
}

// Hann returns a Hann window.
func Hann(length int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, length, opts...)
}

// ApplyInPlace multiplies samples by coeffs element-wise.
func ApplyInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return fmt.Errorf("%w: %d samples, %d coefficients", ErrLengthMismatch, len(samples), len(coeffs))
	}
	vecmath.MulBlockInPlace(samples, coeffs)
	return nil
}

// CoherentGain returns the mean coefficient, the amplitude scaling a window
// applies to a bin-centred sinusoid.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}

// EquivalentNoiseBandwidth returns the ENBW in bins:
// N * sum(w²) / sum(w)².
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, fmt.Errorf("window coefficients must not be empty")
	}
	var sum, sumSq float64
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}
	if sum == 0 {
		return 0, fmt.Errorf("window coefficients sum to zero")
	}
	return float64(len(coeffs)) * sumSq / (sum * sum), nil
}
