package impact

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	stateMagic   = "IMPACT"
	stateVersion = uint32(1)
)

// ErrInvalidState is returned by [LoadState] for data that was not written
// by [SaveState].
var ErrInvalidState = errors.New("impact: invalid state")

// SaveState writes the macro value as a small binary blob: magic, version
// and the value as a little-endian float64. DSP buffers are never saved.
func SaveState(w io.Writer, impact float64) error {
	if _, err := w.Write([]byte(stateMagic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, stateVersion); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, impact)
}

// LoadState reads a blob written by [SaveState] and returns the macro value
// clamped to [MinImpact, MaxImpact].
func LoadState(r io.Reader) (float64, error) {
	header := make([]byte, len(stateMagic))
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if string(header) != stateMagic {
		return 0, fmt.Errorf("%w: bad magic %q", ErrInvalidState, header)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if version == 0 || version > stateVersion {
		return 0, fmt.Errorf("%w: version %d is not supported (max %d)", ErrInvalidState, version, stateVersion)
	}

	var impact float64
	if err := binary.Read(r, binary.LittleEndian, &impact); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if math.IsNaN(impact) {
		return 0, fmt.Errorf("%w: impact is NaN", ErrInvalidState)
	}
	return math.Max(MinImpact, math.Min(MaxImpact, impact)), nil
}
