// Package render drives the impact engine offline: it loads a YAML render
// description with an impact automation curve, reads and writes WAV files and
// runs audio through the engine block by block.
package render

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-impact/dsp/core"
	"github.com/cwbudde/algo-impact/dsp/impact"
)

// Defaults used when a field is omitted from the render file.
const (
	DefaultSampleRate  = 48000.0
	DefaultBlockSize   = 512
	DefaultBitDepth    = 24
	DefaultTailSeconds = 2.0
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("render: invalid config")

// Point is one automation breakpoint.
type Point struct {
	Time   float64 `yaml:"time"`
	Impact float64 `yaml:"impact"`
}

// Config describes an offline render.
type Config struct {
	// SampleRate is used when no input file supplies one.
	SampleRate  float64 `yaml:"sample_rate"`
	BlockSize   int     `yaml:"block_size"`
	Variant     string  `yaml:"variant"`
	SmoothingMS float64 `yaml:"smoothing_ms"`
	BitDepth    int     `yaml:"bit_depth"`
	TailSeconds float64 `yaml:"tail_seconds"`
	// Automation is sorted by time. Impact holds its first value before the
	// first point and its last value after the last point.
	Automation []Point `yaml:"automation"`
}

// DefaultConfig returns a render description with a constant impact of 0.
func DefaultConfig() Config {
	return Config{
		SampleRate:  DefaultSampleRate,
		BlockSize:   DefaultBlockSize,
		Variant:     impact.DefaultVariant.String(),
		SmoothingMS: impact.DefaultSmoothingTime * 1000,
		BitDepth:    DefaultBitDepth,
		TailSeconds: DefaultTailSeconds,
	}
}

// LoadConfig reads a YAML render description from path. Omitted fields keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read render config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML render description.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse render config: %w", err)
	}
	sort.SliceStable(cfg.Automation, func(i, j int) bool {
		return cfg.Automation[i].Time < cfg.Automation[j].Time
	})
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := core.ValidateSampleRate(c.SampleRate); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := core.ValidateBlockSize(c.BlockSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := impact.ParseVariant(c.Variant); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.SmoothingMS < 0 || math.IsNaN(c.SmoothingMS) {
		return fmt.Errorf("%w: smoothing_ms must be >= 0: %f", ErrInvalidConfig, c.SmoothingMS)
	}
	switch c.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: bit_depth must be 16, 24 or 32: %d", ErrInvalidConfig, c.BitDepth)
	}
	if c.TailSeconds < 0 || c.TailSeconds > 60 || math.IsNaN(c.TailSeconds) {
		return fmt.Errorf("%w: tail_seconds must be in [0, 60]: %f", ErrInvalidConfig, c.TailSeconds)
	}

	prev := math.Inf(-1)
	for i, p := range c.Automation {
		if p.Time < 0 || math.IsNaN(p.Time) || math.IsInf(p.Time, 0) {
			return fmt.Errorf("%w: automation[%d] time must be >= 0: %f", ErrInvalidConfig, i, p.Time)
		}
		if p.Time < prev {
			return fmt.Errorf("%w: automation[%d] is out of order", ErrInvalidConfig, i)
		}
		if p.Impact < impact.MinImpact || p.Impact > impact.MaxImpact || math.IsNaN(p.Impact) {
			return fmt.Errorf("%w: automation[%d] impact must be in [%g, %g]: %f",
				ErrInvalidConfig, i, impact.MinImpact, impact.MaxImpact, p.Impact)
		}
		prev = p.Time
	}
	return nil
}

// EngineOptions translates the description into engine options.
func (c Config) EngineOptions() ([]impact.Option, error) {
	v, err := impact.ParseVariant(c.Variant)
	if err != nil {
		return nil, err
	}
	return []impact.Option{
		impact.WithVariant(v),
		impact.WithSmoothingTime(c.SmoothingMS / 1000),
	}, nil
}

// ImpactAt returns the automated impact at time t in seconds, linearly
// interpolated between breakpoints.
func (c Config) ImpactAt(t float64) float64 {
	pts := c.Automation
	switch {
	case len(pts) == 0:
		return impact.MinImpact
	case t <= pts[0].Time:
		return pts[0].Impact
	case t >= pts[len(pts)-1].Time:
		return pts[len(pts)-1].Impact
	}

	i := sort.Search(len(pts), func(i int) bool { return pts[i].Time > t })
	a, b := pts[i-1], pts[i]
	return core.Lerp(a.Impact, b.Impact, (t-a.Time)/(b.Time-a.Time))
}

// Duration returns the time of the last automation point.
func (c Config) Duration() float64 {
	if len(c.Automation) == 0 {
		return 0
	}
	return c.Automation[len(c.Automation)-1].Time
}
