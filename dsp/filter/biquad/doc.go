// Package biquad provides the second-order IIR section used by the impact
// engine's high-pass stage.
//
// A [Section] implements Direct Form II Transposed processing for
// [Coefficients]. Coefficient design lives in dsp/filter/design.
package biquad
