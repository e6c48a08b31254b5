// Package band measures how a processed signal distributes its energy across
// frequency: averaged power spectra, band energy and single-tone gain.
//
// It is used to check the impact engine's high-pass stage on rendered audio.
package band

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-impact/dsp/core"
	"github.com/cwbudde/algo-impact/dsp/spectrum"
	"github.com/cwbudde/algo-impact/dsp/window"
)

// DefaultFFTSize is the analysis frame length.
const DefaultFFTSize = 4096

// ErrEmptySignal is returned when there is nothing to analyze.
var ErrEmptySignal = errors.New("band: empty signal")

// Option configures an Analyzer.
type Option func(*config) error

type config struct {
	fftSize    int
	windowType window.Type
}

// WithFFTSize sets the frame length. It must be a power of two >= 16.
func WithFFTSize(n int) Option {
	return func(cfg *config) error {
		if n < 16 || n&(n-1) != 0 {
			return fmt.Errorf("band FFT size must be a power of two >= 16: %d", n)
		}
		cfg.fftSize = n
		return nil
	}
}

// WithWindow selects the analysis window.
func WithWindow(t window.Type) Option {
	return func(cfg *config) error {
		cfg.windowType = t
		return nil
	}
}

// Analyzer computes Welch-averaged power spectra with 50% overlap.
// It reuses its buffers and is not safe for concurrent use.
type Analyzer struct {
	sampleRate float64
	fftSize    int
	plan       *algofft.Plan[complex128]
	coeffs     []float64
	norm       float64

	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	bin   []float64
}

// NewAnalyzer creates an analyzer for sampleRate.
func NewAnalyzer(sampleRate float64, opts ...Option) (*Analyzer, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	cfg := config{fftSize: DefaultFFTSize, windowType: window.TypeHann}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	coeffs, err := window.Generate(cfg.windowType, cfg.fftSize, window.WithPeriodic())
	if err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(cfg.fftSize)
	if err != nil {
		return nil, fmt.Errorf("band: create FFT plan: %w", err)
	}

	bins := cfg.fftSize/2 + 1
	cg := window.CoherentGain(coeffs)

	return &Analyzer{
		sampleRate: sampleRate,
		fftSize:    cfg.fftSize,
		plan:       plan,
		coeffs:     coeffs,
		norm:       1 / (cg * float64(cfg.fftSize) * cg * float64(cfg.fftSize)),
		frame:      make([]float64, cfg.fftSize),
		in:         make([]complex128, cfg.fftSize),
		out:        make([]complex128, cfg.fftSize),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		bin:        make([]float64, bins),
	}, nil
}

// FFTSize returns the frame length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// SampleRate returns the analysis sample rate.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// PowerSpectrum returns the averaged one-sided power spectrum of x
// (fftSize/2+1 bins). Power is normalized so that a bin-centred sinusoid of
// amplitude A reads A²/4 in its bin. Only whole frames are averaged; a signal
// shorter than one frame is zero-padded into a single frame.
func (a *Analyzer) PowerSpectrum(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}

	acc := make([]float64, len(a.bin))
	hop := a.fftSize / 2
	frames := 0
	for start := 0; frames == 0 || start+a.fftSize <= len(x); start += hop {
		end := min(start+a.fftSize, len(x))
		core.Zero(a.frame)
		copy(a.frame, x[start:end])
		if err := a.framePower(); err != nil {
			return nil, err
		}
		for k, p := range a.bin {
			acc[k] += p
		}
		frames++
	}

	scale := 1 / float64(frames)
	for k := range acc {
		acc[k] *= scale
	}
	return acc, nil
}

func (a *Analyzer) framePower() error {
	if err := window.ApplyInPlace(a.frame, a.coeffs); err != nil {
		return err
	}
	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return fmt.Errorf("band: forward FFT: %w", err)
	}
	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}
	spectrum.PowerFromParts(a.bin, a.re, a.im)
	for k := range a.bin {
		a.bin[k] *= a.norm
	}
	return nil
}

// Energy returns the averaged power of x in [lowHz, highHz).
func (a *Analyzer) Energy(x []float64, lowHz, highHz float64) (float64, error) {
	power, err := a.PowerSpectrum(x)
	if err != nil {
		return 0, err
	}
	return spectrum.BandEnergy(power, a.fftSize, a.sampleRate, lowHz, highHz)
}

// Split is the energy of a signal on either side of a split frequency.
type Split struct {
	SplitHz float64
	Low     float64
	High    float64
}

// LowToHighDB returns 10·log10(Low/High). It is -Inf when there is no
// low-band energy and +Inf when there is no high-band energy.
func (s Split) LowToHighDB() float64 {
	switch {
	case s.Low == 0 && s.High == 0:
		return 0
	case s.High == 0:
		return math.Inf(1)
	case s.Low == 0:
		return math.Inf(-1)
	}
	return 10 * math.Log10(s.Low/s.High)
}

// SplitEnergy partitions the energy of x at splitHz.
func (a *Analyzer) SplitEnergy(x []float64, splitHz float64) (Split, error) {
	if splitHz <= 0 || splitHz >= a.sampleRate/2 || math.IsNaN(splitHz) {
		return Split{}, fmt.Errorf("band split must be in (0, %g): %f", a.sampleRate/2, splitHz)
	}

	power, err := a.PowerSpectrum(x)
	if err != nil {
		return Split{}, err
	}
	low, err := spectrum.BandEnergy(power, a.fftSize, a.sampleRate, 0, splitHz)
	if err != nil {
		return Split{}, err
	}
	high, err := spectrum.BandEnergy(power, a.fftSize, a.sampleRate, splitHz, math.Inf(1))
	if err != nil {
		return Split{}, err
	}
	return Split{SplitHz: splitHz, Low: low, High: high}, nil
}

// ToneGainDB compares the amplitude of a sinusoid at freqHz in output against
// input and returns the gain in dB.
func ToneGainDB(input, output []float64, freqHz, sampleRate float64) (float64, error) {
	if len(input) == 0 || len(output) == 0 {
		return 0, ErrEmptySignal
	}
	in, err := spectrum.ToneAmplitude(input, freqHz, sampleRate)
	if err != nil {
		return 0, err
	}
	if in == 0 {
		return 0, fmt.Errorf("band: no input energy at %g Hz", freqHz)
	}
	out, err := spectrum.ToneAmplitude(output, freqHz, sampleRate)
	if err != nil {
		return 0, err
	}
	return core.LinearToDB(out / in), nil
}
