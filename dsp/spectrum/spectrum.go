package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// PowerFromParts computes |X[k]|^2 = re[k]^2 + im[k]^2 into dst.
// All three slices must have the same length.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}

// MagnitudeFromParts computes |X[k]| into dst.
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// Power returns |X[k]|^2 for each complex bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	re := make([]float64, len(in))
	im := make([]float64, len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	out := make([]float64, len(in))
	vecmath.Power(out, re, im)
	return out
}

// BinFrequency returns the centre frequency of bin k of an fftSize-point
// transform.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(fftSize)
}

// BandEnergy sums the one-sided power bins whose centre frequency lies in
// [lowHz, highHz). power holds fftSize/2+1 bins.
func BandEnergy(power []float64, fftSize int, sampleRate, lowHz, highHz float64) (float64, error) {
	if fftSize <= 0 || len(power) != fftSize/2+1 {
		return 0, fmt.Errorf("spectrum: expected %d power bins, got %d", fftSize/2+1, len(power))
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return 0, fmt.Errorf("spectrum: sample rate must be > 0: %v", sampleRate)
	}
	if lowHz < 0 || highHz < lowHz || math.IsNaN(lowHz) || math.IsNaN(highHz) {
		return 0, fmt.Errorf("spectrum: invalid band [%v, %v)", lowHz, highHz)
	}

	var sum float64
	for k, p := range power {
		f := BinFrequency(k, fftSize, sampleRate)
		if f >= lowHz && f < highHz {
			sum += p
		}
	}
	return sum, nil
}
