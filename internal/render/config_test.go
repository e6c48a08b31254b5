package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-impact/dsp/impact"
)

const riserYAML = `
sample_rate: 44100
block_size: 256
variant: balanced
smoothing_ms: 20
bit_depth: 16
tail_seconds: 0.5
automation:
  - {time: 2, impact: 0}
  - {time: 0, impact: 0}
  - {time: 1, impact: 100}
`

// =============================================================================
// Parsing
// =============================================================================

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(riserYAML))
	require.NoError(t, err)

	assert.InDelta(t, 44100.0, cfg.SampleRate, 0)
	assert.Equal(t, 256, cfg.BlockSize)
	assert.Equal(t, "balanced", cfg.Variant)
	assert.InDelta(t, 20.0, cfg.SmoothingMS, 0)
	assert.Equal(t, 16, cfg.BitDepth)
	assert.InDelta(t, 0.5, cfg.TailSeconds, 0)

	require.Len(t, cfg.Automation, 3)
	assert.InDelta(t, 0.0, cfg.Automation[0].Time, 0, "automation is sorted by time")
	assert.InDelta(t, 2.0, cfg.Duration(), 0)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("variant: glide\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "sample_rate: [1"},
		{"unknown variant", "variant: shimmer"},
		{"sample rate", "sample_rate: 10"},
		{"block size", "block_size: 0"},
		{"bit depth", "bit_depth: 12"},
		{"negative smoothing", "smoothing_ms: -1"},
		{"tail", "tail_seconds: 120"},
		{"impact range", "automation: [{time: 0, impact: 150}]"},
		{"negative time", "automation: [{time: -1, impact: 50}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
		})
	}

	_, err := ParseConfig([]byte("bit_depth: 8"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riser.yaml")
	require.NoError(t, os.WriteFile(path, []byte(riserYAML), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.BlockSize)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// =============================================================================
// Automation
// =============================================================================

func TestImpactAt(t *testing.T) {
	cfg, err := ParseConfig([]byte(riserYAML))
	require.NoError(t, err)

	assert.InDelta(t, 0.0, cfg.ImpactAt(-1), 1e-12)
	assert.InDelta(t, 0.0, cfg.ImpactAt(0), 1e-12)
	assert.InDelta(t, 25.0, cfg.ImpactAt(0.25), 1e-12)
	assert.InDelta(t, 100.0, cfg.ImpactAt(1), 1e-12)
	assert.InDelta(t, 50.0, cfg.ImpactAt(1.5), 1e-12)
	assert.InDelta(t, 0.0, cfg.ImpactAt(10), 1e-12)

	assert.InDelta(t, impact.MinImpact, DefaultConfig().ImpactAt(3), 0)
}

func TestEngineOptions(t *testing.T) {
	cfg, err := ParseConfig([]byte(riserYAML))
	require.NoError(t, err)

	opts, err := cfg.EngineOptions()
	require.NoError(t, err)

	e, err := impact.New(opts...)
	require.NoError(t, err)
	assert.Equal(t, impact.VariantBalanced, e.Variant())
}
