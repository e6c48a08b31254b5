package modulation

import (
	"fmt"
	"math"
)

const (
	// DefaultLFORateHz is the auto-pan modulation speed.
	DefaultLFORateHz = 2.0

	maxLFORateHz = 100.0
)

// LFOOption mutates LFO construction parameters.
type LFOOption func(*lfoConfig) error

type lfoConfig struct {
	rateHz float64
	phase  float64
}

func defaultLFOConfig() lfoConfig {
	return lfoConfig{rateHz: DefaultLFORateHz}
}

// WithLFORateHz sets the oscillator frequency in Hz, in (0, 100].
func WithLFORateHz(rateHz float64) LFOOption {
	return func(cfg *lfoConfig) error {
		if rateHz <= 0 || rateHz > maxLFORateHz || math.IsNaN(rateHz) {
			return fmt.Errorf("lfo rate must be in (0, %g]: %f", maxLFORateHz, rateHz)
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithLFOPhase sets the start phase in radians.
func WithLFOPhase(phase float64) LFOOption {
	return func(cfg *lfoConfig) error {
		if math.IsNaN(phase) || math.IsInf(phase, 0) {
			return fmt.Errorf("lfo phase must be finite: %f", phase)
		}
		cfg.phase = wrapPhase(phase)
		return nil
	}
}

// LFO is a sine oscillator with a phase accumulator. Output is in [-1, 1].
type LFO struct {
	sampleRate float64
	rateHz     float64
	startPhase float64
	phase      float64
	increment  float64
}

// NewLFO creates a sine LFO for sampleRate.
func NewLFO(sampleRate float64, opts ...LFOOption) (*LFO, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultLFOConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	l := &LFO{
		sampleRate: sampleRate,
		rateHz:     cfg.rateHz,
		startPhase: cfg.phase,
		phase:      cfg.phase,
	}
	l.updateIncrement()
	return l, nil
}

// SetRateHz sets the oscillator frequency.
func (l *LFO) SetRateHz(rateHz float64) error {
	if rateHz <= 0 || rateHz > maxLFORateHz || math.IsNaN(rateHz) {
		return fmt.Errorf("lfo rate must be in (0, %g]: %f", maxLFORateHz, rateHz)
	}
	l.rateHz = rateHz
	l.updateIncrement()
	return nil
}

// Next returns the current value and advances the phase by one sample.
func (l *LFO) Next() float64 {
	v := math.Sin(l.phase)
	l.phase += l.increment
	if l.phase >= 2*math.Pi {
		l.phase -= 2 * math.Pi
	}
	return v
}

// Value returns the current value without advancing.
func (l *LFO) Value() float64 { return math.Sin(l.phase) }

// Skip advances the phase by n samples.
func (l *LFO) Skip(n int) {
	if n <= 0 {
		return
	}
	l.phase = wrapPhase(l.phase + float64(n)*l.increment)
}

// Reset rewinds the phase to its start value.
func (l *LFO) Reset() { l.phase = l.startPhase }

// Phase returns the current phase in radians, in [0, 2π).
func (l *LFO) Phase() float64 { return l.phase }

// RateHz returns the oscillator frequency.
func (l *LFO) RateHz() float64 { return l.rateHz }

// SampleRate returns the sample rate in Hz.
func (l *LFO) SampleRate() float64 { return l.sampleRate }

func (l *LFO) updateIncrement() {
	l.increment = 2 * math.Pi * l.rateHz / l.sampleRate
}

func wrapPhase(phase float64) float64 {
	phase = math.Mod(phase, 2*math.Pi)
	if phase < 0 {
		phase += 2 * math.Pi
	}
	return phase
}
