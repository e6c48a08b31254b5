// Package impact implements the single-knob impact engine: one macro value
// in [0, 100] drives a fixed stereo chain of high-pass filter, transient
// gain, bit-depth quantizer, LFO auto-panner, reverb and feedback delay.
//
// The control side calls [Engine.SetImpact] from any goroutine; the value is
// handed to the audio side through a single atomic cell and smoothed per
// sample. [Engine.ProcessBlock] runs on the audio goroutine, never
// allocates, never blocks, and never writes NaN or Inf.
//
// Mapping curves are selected per [Variant]; [Curves] can also be built
// directly for custom voicings.
package impact
