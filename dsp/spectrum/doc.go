// Package spectrum provides spectrum-domain helpers for the measurement
// packages: power/magnitude extraction from split complex bins, band energy
// integration and single-bin Goertzel analysis.
//
// The package does not implement an FFT itself; measure/band feeds it bins
// produced by algo-fft.
package spectrum
