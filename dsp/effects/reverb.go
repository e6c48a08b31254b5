package effects

import (
	"fmt"
	"math"
)

const (
	reverbNumCombs     = 8
	reverbNumAllpasses = 4

	reverbFixedGain      = 0.015
	reverbWetScale       = 3.0
	reverbRoomScale      = 0.28
	reverbRoomOffset     = 0.7
	reverbDampScale      = 0.4
	reverbTuningRate     = 44100.0
	reverbAllpassFeedback = 0.5

	// DefaultReverbStereoSpread is the tuning offset in samples (at 44.1 kHz)
	// of the right-channel instance.
	DefaultReverbStereoSpread = 23

	defaultReverbWet      = 0.0
	defaultReverbDry      = 1.0
	defaultReverbRoomSize = 0.8
	defaultReverbDamp     = 0.3
)

// Tunings calibrated for 44.1 kHz.
var (
	reverbCombTunings    = [reverbNumCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	reverbAllpassTunings = [reverbNumAllpasses]int{556, 441, 341, 225}
)

// ReverbOption mutates reverb construction parameters.
type ReverbOption func(*reverbConfig) error

type reverbConfig struct {
	wet      float64
	dry      float64
	roomSize float64
	damp     float64
	spread   int
}

func defaultReverbConfig() reverbConfig {
	return reverbConfig{
		wet:      defaultReverbWet,
		dry:      defaultReverbDry,
		roomSize: defaultReverbRoomSize,
		damp:     defaultReverbDamp,
	}
}

func validUnit(v float64) bool {
	return v >= 0 && v <= 1 && !math.IsNaN(v)
}

// WithReverbWet sets the initial wet level in [0, 1].
func WithReverbWet(wet float64) ReverbOption {
	return func(cfg *reverbConfig) error {
		if !validUnit(wet) {
			return fmt.Errorf("reverb wet must be in [0, 1]: %f", wet)
		}
		cfg.wet = wet
		return nil
	}
}

// WithReverbDry sets the initial dry level in [0, 1].
func WithReverbDry(dry float64) ReverbOption {
	return func(cfg *reverbConfig) error {
		if !validUnit(dry) {
			return fmt.Errorf("reverb dry must be in [0, 1]: %f", dry)
		}
		cfg.dry = dry
		return nil
	}
}

// WithReverbRoomSize sets the normalized room size in [0, 1].
func WithReverbRoomSize(roomSize float64) ReverbOption {
	return func(cfg *reverbConfig) error {
		if !validUnit(roomSize) {
			return fmt.Errorf("reverb room size must be in [0, 1]: %f", roomSize)
		}
		cfg.roomSize = roomSize
		return nil
	}
}

// WithReverbDamp sets the normalized damping in [0, 1].
func WithReverbDamp(damp float64) ReverbOption {
	return func(cfg *reverbConfig) error {
		if !validUnit(damp) {
			return fmt.Errorf("reverb damp must be in [0, 1]: %f", damp)
		}
		cfg.damp = damp
		return nil
	}
}

// WithReverbStereoSpread offsets every comb and allpass tuning by spread
// samples (at 44.1 kHz). Use 0 for the left instance and
// [DefaultReverbStereoSpread] for the right one.
func WithReverbStereoSpread(spread int) ReverbOption {
	return func(cfg *reverbConfig) error {
		if spread < 0 || spread > 1000 {
			return fmt.Errorf("reverb stereo spread must be in [0, 1000]: %d", spread)
		}
		cfg.spread = spread
		return nil
	}
}

// Reverb is a mono Schroeder/Freeverb-style reverb: eight damped
// feedback combs in parallel followed by four allpasses in series.
type Reverb struct {
	sampleRate float64
	wet        float64
	dry        float64
	roomSize   float64
	damp       float64
	spread     int

	combs   [reverbNumCombs]reverbComb
	allpass [reverbNumAllpasses]reverbAllpass
}

type reverbAllpass struct {
	buffer []float64
	index  int
}

func (a *reverbAllpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	output := bufOut - input
	a.buffer[a.index] = input + bufOut*reverbAllpassFeedback
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return output
}

func (a *reverbAllpass) reset() {
	clear(a.buffer)
	a.index = 0
}

type reverbComb struct {
	feedback    float64
	filterStore float64
	dampA       float64
	dampB       float64
	buffer      []float64
	index       int
}

func (c *reverbComb) process(input float64) float64 {
	output := c.buffer[c.index]
	c.filterStore = output*c.dampB + c.filterStore*c.dampA
	if math.Abs(c.filterStore) < 1e-23 {
		c.filterStore = 0
	}
	c.buffer[c.index] = input + c.filterStore*c.feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return output
}

func (c *reverbComb) reset() {
	clear(c.buffer)
	c.index = 0
	c.filterStore = 0
}

// NewReverb constructs a reverb for sampleRate. All delay storage is
// allocated here.
func NewReverb(sampleRate float64, opts ...ReverbOption) (*Reverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultReverbConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	r := &Reverb{
		sampleRate: sampleRate,
		wet:        cfg.wet,
		dry:        cfg.dry,
		spread:     cfg.spread,
	}
	for i, tuning := range reverbCombTunings {
		r.combs[i].buffer = make([]float64, scaledTuning(tuning+cfg.spread, sampleRate))
	}
	for i, tuning := range reverbAllpassTunings {
		r.allpass[i].buffer = make([]float64, scaledTuning(tuning+cfg.spread, sampleRate))
	}
	r.SetRoomSize(cfg.roomSize)
	r.SetDamp(cfg.damp)
	return r, nil
}

func scaledTuning(tuning int, sampleRate float64) int {
	n := int(math.Round(float64(tuning) * sampleRate / reverbTuningRate))
	if n < 1 {
		n = 1
	}
	return n
}

// Reset clears all delay/filter state.
func (r *Reverb) Reset() {
	for i := range r.combs {
		r.combs[i].reset()
	}
	for i := range r.allpass {
		r.allpass[i].reset()
	}
}

// ProcessWet runs one sample through the reverb network and returns the
// reverberated signal at unit wet level, without any dry component.
func (r *Reverb) ProcessWet(input float64) float64 {
	x := reverbFixedGain * input

	var acc float64
	for i := range r.combs {
		acc += r.combs[i].process(x)
	}
	for i := range r.allpass {
		acc = r.allpass[i].process(acc)
	}
	return acc * reverbWetScale
}

// ProcessSample processes one sample with the current wet and dry levels.
func (r *Reverb) ProcessSample(input float64) float64 {
	return r.ProcessWet(input)*r.wet + input*r.dry
}

// ProcessInPlace applies reverb to buf in place.
func (r *Reverb) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = r.ProcessSample(buf[i])
	}
}

// SetWet sets wet gain.
func (r *Reverb) SetWet(v float64) {
	r.wet = v
}

// SetDry sets dry gain.
func (r *Reverb) SetDry(v float64) {
	r.dry = v
}

// SetRoomSize sets the normalized room size. Comb feedback becomes
// roomSize*0.28 + 0.7.
func (r *Reverb) SetRoomSize(v float64) {
	r.roomSize = v
	fb := v*reverbRoomScale + reverbRoomOffset
	for i := range r.combs {
		r.combs[i].feedback = fb
	}
}

// SetDamp sets the normalized high-frequency damping of the comb feedback.
func (r *Reverb) SetDamp(v float64) {
	r.damp = v
	d := v * reverbDampScale
	for i := range r.combs {
		r.combs[i].dampA = d
		r.combs[i].dampB = 1 - d
	}
}

// DecaySeconds estimates the -60 dB decay time of the longest comb.
func (r *Reverb) DecaySeconds() float64 {
	fb := r.combs[0].feedback
	if fb <= 0 {
		return 0
	}
	if fb >= 1 {
		return math.Inf(1)
	}
	longest := 0
	for i := range r.combs {
		longest = max(longest, len(r.combs[i].buffer))
	}
	return float64(longest) * math.Log(1000) / -math.Log(fb) / r.sampleRate
}

// SampleRate returns the sample rate in Hz.
func (r *Reverb) SampleRate() float64 { return r.sampleRate }

// Wet returns wet gain.
func (r *Reverb) Wet() float64 { return r.wet }

// Dry returns dry gain.
func (r *Reverb) Dry() float64 { return r.dry }

// RoomSize returns the normalized room size.
func (r *Reverb) RoomSize() float64 { return r.roomSize }

// Damp returns the normalized damping.
func (r *Reverb) Damp() float64 { return r.damp }

// StereoSpread returns the tuning offset in samples.
func (r *Reverb) StereoSpread() int { return r.spread }
