package impact

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-impact/dsp/core"
	"github.com/cwbudde/algo-impact/dsp/effects"
	"github.com/cwbudde/algo-impact/dsp/effects/modulation"
	"github.com/cwbudde/algo-impact/dsp/effects/spatial"
	"github.com/cwbudde/algo-impact/dsp/filter/biquad"
	"github.com/cwbudde/algo-impact/dsp/smooth"
)

const (
	// DefaultSmoothingTime is the macro smoothing time constant in seconds.
	DefaultSmoothingTime = 0.05
	// DefaultBypassEpsilon is the normalized impact at or below which a
	// block passes through untouched.
	DefaultBypassEpsilon = 0.001

	stereo = 2
)

var (
	// ErrInvalidSampleRate is returned by [Engine.Prepare] for sample rates
	// outside [core.MinSampleRate, core.MaxSampleRate].
	ErrInvalidSampleRate = errors.New("impact: invalid sample rate")
	// ErrInvalidBlockSize is returned by [Engine.Prepare] for non-positive
	// block sizes.
	ErrInvalidBlockSize = errors.New("impact: invalid block size")
)

// State is the engine lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StatePrepared
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePrepared:
		return "prepared"
	case StateProcessing:
		return "processing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option mutates engine construction parameters.
type Option func(*config) error

type config struct {
	variant       Variant
	curves        Curves
	smoothing     float64
	delayTime     float64
	bypassEpsilon float64
}

func defaultConfig() config {
	return config{
		variant:       DefaultVariant,
		curves:        DefaultVariant.Curves(),
		smoothing:     DefaultSmoothingTime,
		delayTime:     effects.DefaultFeedbackDelayTime,
		bypassEpsilon: DefaultBypassEpsilon,
	}
}

// WithVariant selects the curve set of v.
func WithVariant(v Variant) Option {
	return func(cfg *config) error {
		if _, ok := variantNames[v]; !ok {
			return fmt.Errorf("impact: unknown variant %d", int(v))
		}
		cfg.variant = v
		cfg.curves = v.Curves()
		return nil
	}
}

// WithCurves installs a custom curve set. It overrides [WithVariant] curves
// when applied after it.
func WithCurves(c Curves) Option {
	return func(cfg *config) error {
		if err := c.Validate(); err != nil {
			return err
		}
		cfg.curves = c
		return nil
	}
}

// WithSmoothingTime sets the macro smoothing time constant in seconds. Zero
// makes impact changes take effect at the next block.
func WithSmoothingTime(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || seconds > 10 || math.IsNaN(seconds) {
			return fmt.Errorf("impact smoothing time must be in [0, 10] s: %f", seconds)
		}
		cfg.smoothing = seconds
		return nil
	}
}

// WithDelayTime sets the echo spacing in seconds, in (0, 2].
func WithDelayTime(seconds float64) Option {
	return func(cfg *config) error {
		if seconds <= 0 || seconds > effects.DefaultFeedbackDelayCapacity || math.IsNaN(seconds) {
			return fmt.Errorf("impact delay time must be in (0, %g] s: %f",
				effects.DefaultFeedbackDelayCapacity, seconds)
		}
		cfg.delayTime = seconds
		return nil
	}
}

// WithBypassEpsilon sets the normalized impact threshold for full bypass.
func WithBypassEpsilon(eps float64) Option {
	return func(cfg *config) error {
		if eps < 0 || eps >= 1 || math.IsNaN(eps) {
			return fmt.Errorf("impact bypass epsilon must be in [0, 1): %f", eps)
		}
		cfg.bypassEpsilon = eps
		return nil
	}
}

// Engine is the impact effect: one macro value driving a fixed stereo chain
//
//	high-pass -> transient gain -> quantizer -> auto-pan -> reverb -> delay
//
// applied in place to planar float32 blocks. All buffers are allocated in
// [Engine.Prepare]; [Engine.ProcessBlock] is allocation-free.
type Engine struct {
	cfg     config
	curves  Curves
	control Control
	state   State

	sampleRate   float64
	maxBlockSize int

	smoother *smooth.Value
	bypassed bool
	params   StageParams

	// Per-sample ramps, maxBlockSize long.
	impactRamp []float64
	gainRamp   []float64
	panRamp    []float64
	revWetRamp []float64
	revDryRamp []float64
	dlyWetRamp []float64
	dlyFbRamp  []float64
	makeupRamp []float64

	scratch [stereo][]float64

	cutoffHz  float64
	filters   [stereo]*biquad.Section
	transient *effects.TransientGain
	crusher   *effects.BitCrusher
	panner    *spatial.AutoPanner
	reverbs   [stereo]*effects.Reverb
	delay     *effects.FeedbackDelay
}

// New creates an engine. It must be prepared before it processes audio.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.curves.Validate(); err != nil {
		return nil, err
	}

	transient, err := effects.NewTransientGain(1)
	if err != nil {
		return nil, err
	}
	crusher, err := effects.NewBitCrusher()
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		curves:    cfg.curves,
		smoother:  &smooth.Value{},
		bypassed:  true,
		params:    cfg.curves.Derive(0),
		transient: transient,
		crusher:   crusher,
	}, nil
}

// Prepare allocates all processing state for sampleRate and maxBlockSize
// and clears every audio buffer. It may be called again whenever either
// value changes; the smoothed impact jumps to the current macro value.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}
	if err := core.ValidateBlockSize(maxBlockSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBlockSize, err)
	}

	lfo, err := modulation.NewLFO(sampleRate, modulation.WithLFORateHz(modulation.DefaultLFORateHz))
	if err != nil {
		return err
	}
	panner, err := spatial.NewAutoPanner(lfo, spatial.WithAutoPannerLaw(e.curves.PanLaw))
	if err != nil {
		return err
	}

	var reverbs [stereo]*effects.Reverb
	for ch := range reverbs {
		spread := 0
		if ch == 1 {
			spread = effects.DefaultReverbStereoSpread
		}
		reverbs[ch], err = effects.NewReverb(sampleRate, effects.WithReverbStereoSpread(spread))
		if err != nil {
			return err
		}
	}

	delay, err := effects.NewFeedbackDelay(sampleRate, stereo,
		effects.WithFeedbackDelayTime(e.cfg.delayTime),
		effects.WithFeedbackDelayCapacity(effects.DefaultFeedbackDelayCapacity),
		effects.WithFeedbackDelayMixLaw(e.curves.DelayMix),
	)
	if err != nil {
		return err
	}

	n := maxBlockSize
	e.impactRamp = make([]float64, n)
	e.gainRamp = make([]float64, n)
	e.panRamp = make([]float64, n)
	e.revWetRamp = make([]float64, n)
	e.revDryRamp = make([]float64, n)
	e.dlyWetRamp = make([]float64, n)
	e.dlyFbRamp = make([]float64, n)
	e.makeupRamp = make([]float64, n)
	for ch := range e.scratch {
		e.scratch[ch] = make([]float64, n)
	}

	e.sampleRate = sampleRate
	e.maxBlockSize = maxBlockSize
	e.panner = panner
	e.reverbs = reverbs
	e.delay = delay

	e.cutoffHz = e.curves.MinCutoffHz
	coeffs := e.curves.FilterCoefficients(e.cutoffHz, sampleRate)
	for ch := range e.filters {
		e.filters[ch] = biquad.NewSection(coeffs)
	}

	e.smoother.Reset(sampleRate, e.cfg.smoothing)
	e.smoother.SetCurrentAndTarget(e.control.Load())
	e.params = e.curves.Derive(Normalize(e.smoother.Current()))
	e.bypassed = true
	e.state = StatePrepared
	return nil
}

// SetImpact sets the macro target in [0, 100]; out-of-range values are
// clamped. Safe to call from any goroutine.
func (e *Engine) SetImpact(impact float64) { e.control.Store(impact) }

// Impact returns the macro target.
func (e *Engine) Impact() float64 { return e.control.Load() }

// SmoothedImpact returns the smoothed macro value at the end of the last
// processed block. Call it from the audio goroutine.
func (e *Engine) SmoothedImpact() float64 { return e.smoother.Current() }

// Params returns the stage parameters derived at the end of the last
// processed block.
func (e *Engine) Params() StageParams { return e.params }

// Curves returns the active curve set.
func (e *Engine) Curves() Curves { return e.curves }

// Variant returns the configured variant.
func (e *Engine) Variant() Variant { return e.cfg.variant }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// SampleRate returns the prepared sample rate, or 0.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// MaxBlockSize returns the prepared block size, or 0.
func (e *Engine) MaxBlockSize() int { return e.maxBlockSize }

// Bypassed reports whether the last processed block passed through
// untouched.
func (e *Engine) Bypassed() bool { return e.bypassed }

// SupportsLayout reports whether the engine accepts a bus layout. Mono and
// stereo are accepted when input and output match; mono passes through.
func (e *Engine) SupportsLayout(inputChannels, outputChannels int) bool {
	if inputChannels != outputChannels {
		return false
	}
	return inputChannels == 1 || inputChannels == stereo
}

// TailSeconds estimates how long output continues after the input stops,
// from the current delay feedback and reverb decay.
func (e *Engine) TailSeconds() float64 {
	if e.state == StateUninitialized || e.bypassed {
		return 0
	}

	var tail float64
	if e.params.DelayWet > 0 {
		tail = e.delay.DecaySeconds(e.params.DelayFeedback)
	}
	if e.params.ReverbWet > 0 {
		tail = math.Max(tail, e.reverbs[0].DecaySeconds())
	}
	return tail
}

// Reset clears all audio state without reallocating. The smoothed impact
// jumps to the current macro value.
func (e *Engine) Reset() {
	if e.state == StateUninitialized {
		return
	}
	e.resetAudio()
	e.smoother.SetCurrentAndTarget(e.control.Load())
	e.params = e.curves.Derive(Normalize(e.smoother.Current()))
}

func (e *Engine) resetAudio() {
	for ch := range e.filters {
		e.filters[ch].Reset()
		e.reverbs[ch].Reset()
	}
	e.panner.Reset()
	e.delay.Reset()
}

// SaveState writes the macro value with [SaveState].
func (e *Engine) SaveState(w io.Writer) error {
	return SaveState(w, e.control.Load())
}

// LoadState restores the macro value written by [Engine.SaveState]. The
// smoothed value glides to it; call [Engine.Prepare] or [Engine.Reset] to
// jump.
func (e *Engine) LoadState(r io.Reader) error {
	impact, err := LoadState(r)
	if err != nil {
		return err
	}
	e.control.Store(impact)
	return nil
}

// ProcessBlock processes planar float32 audio in place. It never fails:
// when the engine is not prepared, fewer than two channels are given or
// channel lengths differ, the buffers are left untouched (the smoother
// still advances when prepared). Blocks longer than the prepared maximum
// are processed in chunks.
func (e *Engine) ProcessBlock(channels [][]float32) {
	if e.state == StateUninitialized {
		return
	}
	e.state = StateProcessing
	e.smoother.SetTarget(e.control.Load())

	n := 0
	if len(channels) > 0 {
		n = len(channels[0])
	}
	valid := len(channels) >= stereo
	for _, ch := range channels {
		if len(ch) != n {
			valid = false
		}
	}

	for start := 0; start < n; start += e.maxBlockSize {
		end := min(start+e.maxBlockSize, n)
		if !valid {
			e.smoother.Skip(end - start)
			continue
		}
		e.processChunk(channels[0][start:end], channels[1][start:end])
	}
}

func (e *Engine) processChunk(left, right []float32) {
	n := len(left)
	ramp := e.impactRamp[:n]
	for i := range ramp {
		ramp[i] = Normalize(e.smoother.Tick())
	}

	end := ramp[n-1]
	if end <= e.cfg.bypassEpsilon {
		if !e.bypassed {
			e.resetAudio()
		}
		e.bypassed = true
		e.params = e.curves.Derive(end)
		return
	}
	e.bypassed = false

	l := e.scratch[0][:n]
	r := e.scratch[1][:n]
	core.Widen(l, left)
	core.Widen(r, right)

	p := e.curves.Derive(end)
	e.params = p

	// High-pass, coefficients once per block.
	if p.CutoffHz != e.cutoffHz {
		coeffs := e.curves.FilterCoefficients(p.CutoffHz, e.sampleRate)
		e.filters[0].SetCoefficients(coeffs)
		e.filters[1].SetCoefficients(coeffs)
		e.cutoffHz = p.CutoffHz
	}
	e.filters[0].ProcessBlock(l)
	e.filters[1].ProcessBlock(r)

	c := e.curves
	for i, v := range ramp {
		e.gainRamp[i] = c.TransientGain(v)
		e.panRamp[i] = c.PanDepth(v)
		wet := c.ReverbWet(v)
		e.revWetRamp[i] = wet
		e.revDryRamp[i] = c.ReverbDry.Dry(wet)
		e.dlyWetRamp[i] = c.DelayWet(v)
		e.dlyFbRamp[i] = c.DelayFeedback(v)
	}

	e.transient.ProcessRamp(l, e.gainRamp[:n])
	e.transient.ProcessRamp(r, e.gainRamp[:n])

	e.crusher.SetBitDepth(p.BitDepth)
	e.crusher.ProcessInPlace(l)
	e.crusher.ProcessInPlace(r)

	e.panner.ProcessStereoRamp(l, r, e.panRamp[:n])

	revL, revR := e.reverbs[0], e.reverbs[1]
	for i := range n {
		wet, dry := e.revWetRamp[i], e.revDryRamp[i]
		l[i] = revL.ProcessWet(l[i])*wet + l[i]*dry
		r[i] = revR.ProcessWet(r[i])*wet + r[i]*dry
	}

	e.delay.ProcessStereoRamp(l, r, e.dlyWetRamp[:n], e.dlyFbRamp[:n])

	if c.HasMakeup() {
		mk := e.makeupRamp[:n]
		for i, v := range ramp {
			mk[i] = c.MakeupGain(v)
		}
		vecmath.MulBlockInPlace(l, mk)
		vecmath.MulBlockInPlace(r, mk)
	}

	core.Narrow(left, l)
	core.Narrow(right, r)
}
