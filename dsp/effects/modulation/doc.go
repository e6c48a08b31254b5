// Package modulation provides low-frequency oscillators for modulation
// effects.
package modulation
