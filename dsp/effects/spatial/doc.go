// Package spatial provides stereo pan laws and an LFO-driven auto-panner.
package spatial
