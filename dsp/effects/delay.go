package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-impact/dsp/delay"
)

const (
	// DefaultFeedbackDelayTime is the echo spacing in seconds.
	DefaultFeedbackDelayTime = 0.125
	// DefaultFeedbackDelayCapacity is the per-channel buffer length in seconds.
	DefaultFeedbackDelayCapacity = 2.0

	defaultFeedbackDelayWet      = 0.0
	defaultFeedbackDelayFeedback = 0.0
	maxFeedbackDelayFeedback     = 0.999
)

// FeedbackDelayOption mutates feedback delay construction parameters.
type FeedbackDelayOption func(*feedbackDelayConfig) error

type feedbackDelayConfig struct {
	timeSeconds     float64
	capacitySeconds float64
	wet             float64
	feedback        float64
	law             MixLaw
}

func defaultFeedbackDelayConfig() feedbackDelayConfig {
	return feedbackDelayConfig{
		timeSeconds:     DefaultFeedbackDelayTime,
		capacitySeconds: DefaultFeedbackDelayCapacity,
		wet:             defaultFeedbackDelayWet,
		feedback:        defaultFeedbackDelayFeedback,
		law:             MixAdditive,
	}
}

// WithFeedbackDelayTime sets the delay time in seconds.
func WithFeedbackDelayTime(seconds float64) FeedbackDelayOption {
	return func(cfg *feedbackDelayConfig) error {
		if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("feedback delay time must be > 0 and finite: %f", seconds)
		}
		cfg.timeSeconds = seconds
		return nil
	}
}

// WithFeedbackDelayCapacity sets the buffer length in seconds.
func WithFeedbackDelayCapacity(seconds float64) FeedbackDelayOption {
	return func(cfg *feedbackDelayConfig) error {
		if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("feedback delay capacity must be > 0 and finite: %f", seconds)
		}
		cfg.capacitySeconds = seconds
		return nil
	}
}

// WithFeedbackDelayWet sets the initial wet level in [0, 1].
func WithFeedbackDelayWet(wet float64) FeedbackDelayOption {
	return func(cfg *feedbackDelayConfig) error {
		if !validUnit(wet) {
			return fmt.Errorf("feedback delay wet must be in [0, 1]: %f", wet)
		}
		cfg.wet = wet
		return nil
	}
}

// WithFeedbackDelayFeedback sets the initial feedback in [0, 1).
func WithFeedbackDelayFeedback(feedback float64) FeedbackDelayOption {
	return func(cfg *feedbackDelayConfig) error {
		if err := validateFeedback(feedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithFeedbackDelayMixLaw sets how echoes are blended with the input.
func WithFeedbackDelayMixLaw(law MixLaw) FeedbackDelayOption {
	return func(cfg *feedbackDelayConfig) error {
		if law != MixAdditive && law != MixCrossfade {
			return fmt.Errorf("feedback delay mix law unknown: %d", law)
		}
		cfg.law = law
		return nil
	}
}

func validateFeedback(feedback float64) error {
	if feedback < 0 || feedback >= 1 || math.IsNaN(feedback) {
		return fmt.Errorf("feedback delay feedback must be in [0, 1): %f", feedback)
	}
	return nil
}

// FeedbackDelay is a multi-channel echo over a [delay.Line]. Every channel
// reads and writes at the same cursor position, which advances once per
// frame. Per frame and channel:
//
//	d   = line[read]
//	out = law.Mix(in, d, wet)
//	line[write] = in + d*feedback
type FeedbackDelay struct {
	sampleRate   float64
	timeSeconds  float64
	delaySamples int
	wet          float64
	feedback     float64
	law          MixLaw

	line *delay.Line
}

// NewFeedbackDelay creates a delay for the given channel count. The buffer
// is allocated here and never resized while processing.
func NewFeedbackDelay(sampleRate float64, channels int, opts ...FeedbackDelayOption) (*FeedbackDelay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("feedback delay sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultFeedbackDelayConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.timeSeconds > cfg.capacitySeconds {
		return nil, fmt.Errorf("feedback delay time %g s exceeds capacity %g s",
			cfg.timeSeconds, cfg.capacitySeconds)
	}

	line, err := delay.New(channels, int(math.Ceil(cfg.capacitySeconds*sampleRate)))
	if err != nil {
		return nil, err
	}

	d := &FeedbackDelay{
		sampleRate: sampleRate,
		wet:        cfg.wet,
		feedback:   cfg.feedback,
		law:        cfg.law,
		line:       line,
	}
	if err := d.SetTime(cfg.timeSeconds); err != nil {
		return nil, err
	}
	return d, nil
}

// SetTime sets the delay time in seconds. It must fit in the buffer.
func (d *FeedbackDelay) SetTime(seconds float64) error {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("feedback delay time must be > 0 and finite: %f", seconds)
	}
	samples := int(seconds * d.sampleRate)
	if samples > d.line.Len() {
		return fmt.Errorf("feedback delay time %g s exceeds capacity of %d samples", seconds, d.line.Len())
	}
	d.timeSeconds = seconds
	d.delaySamples = max(samples, 1)
	return nil
}

// SetWet sets the wet level in [0, 1].
func (d *FeedbackDelay) SetWet(wet float64) error {
	if !validUnit(wet) {
		return fmt.Errorf("feedback delay wet must be in [0, 1]: %f", wet)
	}
	d.wet = wet
	return nil
}

// SetFeedback sets the feedback gain in [0, 1).
func (d *FeedbackDelay) SetFeedback(feedback float64) error {
	if err := validateFeedback(feedback); err != nil {
		return err
	}
	d.feedback = feedback
	return nil
}

// SetMixLaw sets how echoes are blended with the input.
func (d *FeedbackDelay) SetMixLaw(law MixLaw) { d.law = law }

// ProcessFrame processes one sample on every channel in frame with the
// current wet and feedback, then advances the cursor. len(frame) must not
// exceed the channel count.
func (d *FeedbackDelay) ProcessFrame(frame []float64) {
	d.processFrame(frame, d.wet, d.feedback)
}

func (d *FeedbackDelay) processFrame(frame []float64, wet, feedback float64) {
	for ch, in := range frame {
		delayed := d.line.Read(ch, d.delaySamples)
		d.line.Write(ch, in+delayed*feedback)
		frame[ch] = d.law.Mix(in, delayed, wet)
	}
	d.line.Advance()
}

// ProcessInPlace processes a single-channel buffer with the current wet and
// feedback.
func (d *FeedbackDelay) ProcessInPlace(buf []float64) {
	var frame [1]float64
	for i, x := range buf {
		frame[0] = x
		d.processFrame(frame[:], d.wet, d.feedback)
		buf[i] = frame[0]
	}
}

// ProcessStereoRamp processes a stereo pair of equal-length buffers with
// per-sample wet and feedback ramps. Feedback values are clamped below 1.
func (d *FeedbackDelay) ProcessStereoRamp(left, right, wet, feedback []float64) {
	n := min(len(left), len(right), len(wet), len(feedback))
	var frame [2]float64
	for i := range n {
		fb := feedback[i]
		if fb > maxFeedbackDelayFeedback {
			fb = maxFeedbackDelayFeedback
		}
		frame[0], frame[1] = left[i], right[i]
		d.processFrame(frame[:], wet[i], fb)
		left[i], right[i] = frame[0], frame[1]
	}
}

// Reset clears the buffer and rewinds the cursor.
func (d *FeedbackDelay) Reset() { d.line.Reset() }

// DelaySamples returns the delay time in samples.
func (d *FeedbackDelay) DelaySamples() int { return d.delaySamples }

// Time returns the delay time in seconds.
func (d *FeedbackDelay) Time() float64 { return d.timeSeconds }

// Wet returns the wet level.
func (d *FeedbackDelay) Wet() float64 { return d.wet }

// Feedback returns the feedback gain.
func (d *FeedbackDelay) Feedback() float64 { return d.feedback }

// MixLaw returns the blend law.
func (d *FeedbackDelay) MixLaw() MixLaw { return d.law }

// Capacity returns the per-channel buffer length in samples.
func (d *FeedbackDelay) Capacity() int { return d.line.Len() }

// DecaySeconds estimates the time for echoes at the given feedback to fall
// 60 dB below the first repeat.
func (d *FeedbackDelay) DecaySeconds(feedback float64) float64 {
	if feedback <= 0 {
		return float64(d.delaySamples) / d.sampleRate
	}
	if feedback >= 1 {
		return math.Inf(1)
	}
	repeats := math.Log(1000) / -math.Log(feedback)
	return (repeats + 1) * float64(d.delaySamples) / d.sampleRate
}
