// Package effects provides the per-channel processing stages of the impact
// chain.
//
// Included processors:
//   - TransientGain: Static or per-sample ramped linear gain.
//   - BitCrusher: Amplitude quantization to a fractional bit depth.
//   - Reverb: Freeverb-style comb/allpass reverb with sample-rate scaled tunings.
//   - FeedbackDelay: Multi-channel circular feedback delay with a shared cursor.
//
// MixLaw and ReverbDryLaw select how wet signals are blended with the dry path.
package effects
