// Package signal generates deterministic source material for offline
// renders and tests: tones, noise, impulses and drum-like pulse trains.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-impact/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// SetSeed changes the noise seed.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if freqHz <= 0 || freqHz >= g.cfg.SampleRate/2 {
		return nil, fmt.Errorf("sine frequency must be in (0, %g): %f", g.cfg.SampleRate/2, freqHz)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Impulse generates a single sample of the given amplitude at pos.
func (g *Generator) Impulse(amplitude float64, samples, pos int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	if pos < 0 || pos >= samples {
		return nil, fmt.Errorf("impulse position must be in [0, %d): %d", samples, pos)
	}
	out := make([]float64, samples)
	out[pos] = amplitude
	return out, nil
}

// Pulses generates a drum-like pulse train at bpm: every beat starts a
// burst of a decaying 60 Hz body plus noise click, with an exponential
// decay time constant of decaySeconds.
func (g *Generator) Pulses(bpm, decaySeconds, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("pulse samples must be > 0: %d", samples)
	}
	if bpm <= 0 || bpm > 1000 || math.IsNaN(bpm) {
		return nil, fmt.Errorf("pulse bpm must be in (0, 1000]: %f", bpm)
	}
	if decaySeconds <= 0 || math.IsNaN(decaySeconds) {
		return nil, fmt.Errorf("pulse decay must be > 0: %f", decaySeconds)
	}

	sr := g.cfg.SampleRate
	period := int(math.Round(60 / bpm * sr))
	if period < 1 {
		period = 1
	}
	decay := math.Exp(-1 / (decaySeconds * sr))
	body := 2 * math.Pi * 60 / sr
	rng := rand.New(rand.NewSource(g.seed))

	out := make([]float64, samples)
	env := 0.0
	pos := 0
	for i := range out {
		if i%period == 0 {
			env = 1
			pos = 0
		}
		click := (rng.Float64()*2 - 1) * math.Exp(-float64(pos)/(0.002*sr))
		out[i] = amplitude * env * (0.8*math.Sin(body*float64(pos)) + 0.2*click)
		env *= decay
		pos++
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}

// ToFloat32 converts data to host sample format.
func ToFloat32(data []float64) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v)
	}
	return out
}
