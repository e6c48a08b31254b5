package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-impact/dsp/core"
)

const (
	monoChannels   = 1
	stereoChannels = 2
	wavFormatPCM   = 1
)

// ErrInvalidWAV is returned for unreadable or unsupported WAV input.
var ErrInvalidWAV = errors.New("render: invalid WAV")

// Audio is planar float64 audio in [-1, 1].
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// Frames returns the number of sample frames.
func (a *Audio) Frames() int {
	if a == nil || len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	if a == nil || a.SampleRate <= 0 {
		return 0
	}
	return float64(a.Frames()) / float64(a.SampleRate)
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return float64(int64(1)<<(bitDepth-1) - 1), nil
	default:
		return 0, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWAV, bitDepth)
	}
}

// ReadWAV decodes an integer PCM WAV stream into planar float64 audio.
func ReadWAV(r io.ReadSeeker) (*Audio, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode WAV: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}

	bitDepth := int(decoder.BitDepth)
	maxVal, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	numChannels := buf.Format.NumChannels
	frames := len(buf.Data) / numChannels
	channels := make([][]float64, numChannels)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}

	inv := 1 / maxVal
	for i := range frames {
		for ch := range numChannels {
			channels[ch][i] = float64(buf.Data[i*numChannels+ch]) * inv
		}
	}

	return &Audio{
		SampleRate: buf.Format.SampleRate,
		BitDepth:   bitDepth,
		Channels:   channels,
	}, nil
}

// ReadWAVFile reads the WAV file at path.
func ReadWAVFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	a, err := ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// interleave packs planar channels into one frame-major slice.
func interleave(channels [][]float64) []float64 {
	frames := len(channels[0])
	out := make([]float64, frames*len(channels))
	if len(channels) == stereoChannels {
		f64.Interleave2(out, channels[0], channels[1])
		return out
	}
	for ch, x := range channels {
		for i, v := range x {
			out[i*len(channels)+ch] = v
		}
	}
	return out
}

// WriteWAV encodes a as integer PCM at a.BitDepth. Samples are clipped to
// full scale.
func WriteWAV(w io.WriteSeeker, a *Audio) error {
	if a == nil || len(a.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}
	frames := a.Frames()
	for ch, x := range a.Channels {
		if len(x) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidWAV, ch, len(x), frames)
		}
	}
	if a.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %d", ErrInvalidWAV, a.SampleRate)
	}
	maxVal, err := fullScale(a.BitDepth)
	if err != nil {
		return err
	}

	samples := interleave(a.Channels)
	data := make([]int, len(samples))
	for i, v := range samples {
		if math.IsNaN(v) {
			v = 0
		}
		data[i] = int(math.Round(core.Clamp(v, -1, 1) * maxVal))
	}

	encoder := wav.NewEncoder(w, a.SampleRate, a.BitDepth, len(a.Channels), wavFormatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: len(a.Channels),
			SampleRate:  a.SampleRate,
		},
		Data:           data,
		SourceBitDepth: a.BitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("encode WAV: %w", err)
	}
	return encoder.Close()
}

// WriteWAVFile writes a to path, replacing any existing file.
func WriteWAVFile(path string, a *Audio) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return WriteWAV(f, a)
}
