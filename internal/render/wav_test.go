package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-impact/internal/testutil"
)

func TestWAVRoundTrip(t *testing.T) {
	for _, bitDepth := range []int{16, 24, 32} {
		path := filepath.Join(t.TempDir(), "tone.wav")
		in := &Audio{
			SampleRate: 44100,
			BitDepth:   bitDepth,
			Channels: [][]float64{
				testutil.DeterministicSine(440, 44100, 0.5, 2048),
				testutil.DeterministicNoise(3, 0.25, 2048),
			},
		}
		require.NoError(t, WriteWAVFile(path, in))

		out, err := ReadWAVFile(path)
		require.NoError(t, err)
		assert.Equal(t, 44100, out.SampleRate)
		assert.Equal(t, bitDepth, out.BitDepth)
		require.Len(t, out.Channels, 2)
		assert.Equal(t, 2048, out.Frames())

		maxVal, err := fullScale(bitDepth)
		require.NoError(t, err)
		for ch := range in.Channels {
			diff, err := testutil.MaxAbsDiff(in.Channels[ch], out.Channels[ch])
			require.NoError(t, err)
			assert.LessOrEqualf(t, diff, 1/maxVal, "bit depth %d channel %d", bitDepth, ch)
		}
	}
}

func TestWAVMonoAndClipping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	in := &Audio{SampleRate: 8000, BitDepth: 16, Channels: [][]float64{{0, 2, -2, 0.5}}}
	require.NoError(t, WriteWAVFile(path, in))

	out, err := ReadWAVFile(path)
	require.NoError(t, err)
	require.Len(t, out.Channels, 1)
	testutil.RequireSliceNearlyEqual(t, out.Channels[0], []float64{0, 1, -1, 0.5}, 1.0/32767)
	assert.InDelta(t, 0.0005, out.Duration(), 1e-12)
}

func TestWriteWAVErrors(t *testing.T) {
	dir := t.TempDir()

	err := WriteWAVFile(filepath.Join(dir, "a.wav"), &Audio{SampleRate: 8000, BitDepth: 16})
	require.ErrorIs(t, err, ErrInvalidWAV)

	err = WriteWAVFile(filepath.Join(dir, "b.wav"), &Audio{SampleRate: 8000, BitDepth: 12, Channels: [][]float64{{0}}})
	require.ErrorIs(t, err, ErrInvalidWAV)

	err = WriteWAVFile(filepath.Join(dir, "c.wav"), &Audio{
		SampleRate: 8000, BitDepth: 16, Channels: [][]float64{{0, 0}, {0}},
	})
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF data"), 0o600))

	_, err := ReadWAVFile(path)
	require.ErrorIs(t, err, ErrInvalidWAV)

	_, err = ReadWAVFile(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}
