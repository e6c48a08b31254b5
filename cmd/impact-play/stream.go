package main

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cwbudde/algo-impact/dsp/impact"
)

const (
	stereoChannels = 2
	bytesPerSample = 4
	bytesPerFrame  = stereoChannels * bytesPerSample
)

// stream loops planar source audio through the engine and serves it as
// interleaved float32 little-endian frames. Read runs on the audio output
// goroutine; the knob only touches the engine through SetImpact.
type stream struct {
	engine *impact.Engine
	source [][]float64
	pos    int
	block  [][]float32
}

func newStream(engine *impact.Engine, source [][]float64, blockSize int) (*stream, error) {
	switch {
	case len(source) == 0 || len(source) > stereoChannels:
		return nil, fmt.Errorf("unsupported channel count %d", len(source))
	case len(source[0]) == 0:
		return nil, fmt.Errorf("source is empty")
	case blockSize <= 0:
		return nil, fmt.Errorf("block size must be > 0: %d", blockSize)
	}
	return &stream{
		engine: engine,
		source: source,
		block:  [][]float32{make([]float32, blockSize), make([]float32, blockSize)},
	}, nil
}

// Read fills p with whole frames and never fails.
func (s *stream) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	blockSize := len(s.block[0])
	left := s.source[0]
	right := s.source[len(s.source)-1]

	for done := 0; done < frames; {
		n := min(blockSize, frames-done)
		l, r := s.block[0][:n], s.block[1][:n]
		for i := range n {
			l[i] = float32(left[s.pos])
			r[i] = float32(right[s.pos])
			s.pos++
			if s.pos == len(left) {
				s.pos = 0
			}
		}

		s.engine.ProcessBlock([][]float32{l, r})

		out := p[done*bytesPerFrame:]
		for i := range n {
			binary.LittleEndian.PutUint32(out[i*bytesPerFrame:], math.Float32bits(l[i]))
			binary.LittleEndian.PutUint32(out[i*bytesPerFrame+bytesPerSample:], math.Float32bits(r[i]))
		}
		done += n
	}
	return frames * bytesPerFrame, nil
}
