// Package design provides high-pass coefficient designers for
// dsp/filter/biquad.
//
// [Highpass] is the RBJ second-order design, [HighpassOnePole] a first-order
// bilinear design packed into a biquad with B2 = A2 = 0. Invalid frequencies
// yield passthrough coefficients instead of silence.
package design
