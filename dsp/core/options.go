package core

import (
	"fmt"
	"math"
)

// Supported sample-rate range for real-time processing.
const (
	MinSampleRate = 8000.0
	MaxSampleRate = 384000.0
)

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for offline and streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 44100,
		BlockSize:  512,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks that the sample rate lies in [MinSampleRate, MaxSampleRate]
// and that the block size is positive.
func (c ProcessorConfig) Validate() error {
	if err := ValidateSampleRate(c.SampleRate); err != nil {
		return err
	}
	return ValidateBlockSize(c.BlockSize)
}

// ValidateSampleRate checks that sampleRate lies in [MinSampleRate, MaxSampleRate].
func ValidateSampleRate(sampleRate float64) error {
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate ||
		math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("sample rate must be in [%g, %g]: %f", MinSampleRate, MaxSampleRate, sampleRate)
	}
	return nil
}

// ValidateBlockSize checks that blockSize is positive.
func ValidateBlockSize(blockSize int) error {
	if blockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", blockSize)
	}
	return nil
}
