// Package delay provides a multi-channel circular delay line.
package delay

import "fmt"

// Line is a circular delay line with one buffer per channel and a single
// write cursor shared by all channels. Reads for a delay of n samples come
// from (write - n + size) mod size.
type Line struct {
	buffers  [][]float64
	size     int
	writePos int
}

// New returns a delay line with the given channel count and per-channel
// capacity in samples.
func New(channels, size int) (*Line, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("delay channels must be > 0: %d", channels)
	}
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}

	buffers := make([][]float64, channels)
	for ch := range buffers {
		buffers[ch] = make([]float64, size)
	}
	return &Line{buffers: buffers, size: size}, nil
}

// Len returns the per-channel capacity in samples.
func (d *Line) Len() int { return d.size }

// Channels returns the channel count.
func (d *Line) Channels() int { return len(d.buffers) }

// WritePos returns the shared write cursor.
func (d *Line) WritePos() int { return d.writePos }

// ReadIndex returns the buffer index holding the sample written delay
// samples ago. delay is clamped to [1, Len].
func (d *Line) ReadIndex(delay int) int {
	if delay < 1 {
		delay = 1
	} else if delay > d.size {
		delay = d.size
	}
	return (d.writePos - delay + d.size) % d.size
}

// Read returns the sample written delay samples ago on channel ch.
func (d *Line) Read(ch, delay int) float64 {
	return d.buffers[ch][d.ReadIndex(delay)]
}

// Write stores sample at the shared write cursor of channel ch. The cursor
// does not move until [Line.Advance].
func (d *Line) Write(ch int, sample float64) {
	d.buffers[ch][d.writePos] = sample
}

// Advance moves the shared write cursor one sample forward.
func (d *Line) Advance() {
	d.writePos++
	if d.writePos >= d.size {
		d.writePos = 0
	}
}

// Reset clears all channels and rewinds the cursor.
func (d *Line) Reset() {
	for _, buf := range d.buffers {
		for i := range buf {
			buf[i] = 0
		}
	}
	d.writePos = 0
}
