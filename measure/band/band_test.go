package band

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-impact/dsp/filter/biquad"
	"github.com/cwbudde/algo-impact/dsp/filter/design"
	"github.com/cwbudde/algo-impact/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 48000.0

func highpass(x []float64, order int, cutoff float64) []float64 {
	out := append([]float64(nil), x...)
	biquad.NewSection(design.HighpassOrder(order, cutoff, testSampleRate)).ProcessBlock(out)
	return out
}

// =============================================================================
// Construction
// =============================================================================

func TestNewAnalyzerValidation(t *testing.T) {
	_, err := NewAnalyzer(0)
	require.Error(t, err)

	_, err = NewAnalyzer(testSampleRate, WithFFTSize(1000))
	require.Error(t, err)

	_, err = NewAnalyzer(testSampleRate, WithFFTSize(8))
	require.Error(t, err)

	a, err := NewAnalyzer(testSampleRate, WithFFTSize(1024), nil)
	require.NoError(t, err)
	assert.Equal(t, 1024, a.FFTSize())
	assert.InDelta(t, testSampleRate, a.SampleRate(), 0)
}

// =============================================================================
// Power spectrum
// =============================================================================

func TestPowerSpectrumBinCentredSine(t *testing.T) {
	a, err := NewAnalyzer(testSampleRate, WithFFTSize(1024))
	require.NoError(t, err)

	// Bin 64 of a 1024-point transform at 48 kHz.
	x := testutil.DeterministicSine(3000, testSampleRate, 0.5, 4096)

	power, err := a.PowerSpectrum(x)
	require.NoError(t, err)
	require.Len(t, power, 513)
	assert.InDelta(t, 0.0625, power[64], 1e-9)
	assert.Less(t, power[100], 1e-12)
}

func TestPowerSpectrumShortSignalIsPadded(t *testing.T) {
	a, err := NewAnalyzer(testSampleRate, WithFFTSize(256))
	require.NoError(t, err)

	power, err := a.PowerSpectrum(testutil.Impulse(10, 0))
	require.NoError(t, err)
	assert.Len(t, power, 129)

	_, err = a.PowerSpectrum(nil)
	assert.True(t, errors.Is(err, ErrEmptySignal))
}

// =============================================================================
// Band energy
// =============================================================================

func TestSplitEnergySeparatesTones(t *testing.T) {
	a, err := NewAnalyzer(testSampleRate)
	require.NoError(t, err)

	low := testutil.DeterministicSine(100, testSampleRate, 0.5, 48000)
	s, err := a.SplitEnergy(low, 1000)
	require.NoError(t, err)
	assert.Greater(t, s.LowToHighDB(), 40.0)

	high := testutil.DeterministicSine(8000, testSampleRate, 0.5, 48000)
	s, err = a.SplitEnergy(high, 1000)
	require.NoError(t, err)
	assert.Less(t, s.LowToHighDB(), -40.0)

	_, err = a.SplitEnergy(high, testSampleRate)
	require.Error(t, err)
}

func TestSplitEnergyDetectsHighpass(t *testing.T) {
	a, err := NewAnalyzer(testSampleRate)
	require.NoError(t, err)

	noise := testutil.DeterministicNoise(7, 0.5, 96000)
	dry, err := a.SplitEnergy(noise, 1000)
	require.NoError(t, err)

	wet, err := a.SplitEnergy(highpass(noise, 2, 2000), 1000)
	require.NoError(t, err)

	assert.Less(t, wet.LowToHighDB(), dry.LowToHighDB()-6)
}

func TestEnergyOfSine(t *testing.T) {
	a, err := NewAnalyzer(testSampleRate, WithFFTSize(1024))
	require.NoError(t, err)

	x := testutil.DeterministicSine(3000, testSampleRate, 0.5, 4096)
	e, err := a.Energy(x, 2000, 4000)
	require.NoError(t, err)

	// Hann spreads the tone over three bins: A²/4 · (1 + 2·1/4).
	assert.InDelta(t, 0.0625*1.5, e, 1e-9)
}

func TestSplitLowToHighDBEdges(t *testing.T) {
	assert.Zero(t, Split{}.LowToHighDB())
	assert.True(t, math.IsInf(Split{Low: 1}.LowToHighDB(), 1))
	assert.True(t, math.IsInf(Split{High: 1}.LowToHighDB(), -1))
	assert.InDelta(t, 10, Split{Low: 10, High: 1}.LowToHighDB(), 1e-12)
}

// =============================================================================
// Tone gain
// =============================================================================

func TestToneGainDBOfHighpass(t *testing.T) {
	lowTone := testutil.DeterministicSine(50, testSampleRate, 0.5, 48000)
	gain, err := ToneGainDB(lowTone, highpass(lowTone, 2, 1000), 50, testSampleRate)
	require.NoError(t, err)
	assert.Less(t, gain, -30.0)

	highTone := testutil.DeterministicSine(5000, testSampleRate, 0.5, 48000)
	gain, err = ToneGainDB(highTone, highpass(highTone, 2, 1000), 5000, testSampleRate)
	require.NoError(t, err)
	assert.InDelta(t, 0, gain, 0.5)
}

func TestToneGainDBErrors(t *testing.T) {
	_, err := ToneGainDB(nil, []float64{1}, 100, testSampleRate)
	require.ErrorIs(t, err, ErrEmptySignal)

	silent := make([]float64, 100)
	_, err = ToneGainDB(silent, silent, 100, testSampleRate)
	require.Error(t, err)
}
