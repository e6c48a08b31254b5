// Package level provides sample-level measurements of rendered audio:
// peak, RMS, DC offset and their dBFS equivalents.
package level

import (
	"math"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// Silence is the dBFS value reported for an all-zero signal.
var Silence = math.Inf(-1)

// Stats summarizes one channel.
type Stats struct {
	Samples  int
	Peak     float64
	RMS      float64
	DC       float64
	PeakDBFS float64
	RMSDBFS  float64
}

// CrestFactorDB returns the peak-to-RMS ratio in dB, or 0 for silence.
func (s Stats) CrestFactorDB() float64 {
	if s.RMS == 0 {
		return 0
	}
	return 20 * math.Log10(s.Peak/s.RMS)
}

// Finite reports whether every field is a finite number other than the
// -Inf dBFS of silence.
func (s Stats) Finite() bool {
	return !math.IsNaN(s.Peak) && !math.IsInf(s.Peak, 0) &&
		!math.IsNaN(s.RMS) && !math.IsInf(s.RMS, 0)
}

// Peak returns max |x[i]|.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, math.Inf(1))
}

// RMS returns the root-mean-square level of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(f64.DotProductUnsafe(x, x) / float64(len(x)))
}

// DC returns the mean of x.
func DC(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return f64.Sum(x) / float64(len(x))
}

// DBFS converts a linear amplitude (1.0 = full scale) to dBFS.
func DBFS(amplitude float64) float64 {
	if amplitude <= 0 {
		return Silence
	}
	return 20 * math.Log10(amplitude)
}

// Measure computes Stats for x.
func Measure(x []float64) Stats {
	peak := Peak(x)
	rms := RMS(x)
	return Stats{
		Samples:  len(x),
		Peak:     peak,
		RMS:      rms,
		DC:       DC(x),
		PeakDBFS: DBFS(peak),
		RMSDBFS:  DBFS(rms),
	}
}

// Measure32 computes Stats for a float32 buffer.
func Measure32(x []float32) Stats {
	wide := make([]float64, len(x))
	for i, v := range x {
		wide[i] = float64(v)
	}
	return Measure(wide)
}

// MeasureChannels computes Stats per channel of planar audio.
func MeasureChannels(channels [][]float64) []Stats {
	out := make([]Stats, len(channels))
	for ch, x := range channels {
		out[ch] = Measure(x)
	}
	return out
}
