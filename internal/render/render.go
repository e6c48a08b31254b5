package render

import (
	"fmt"

	"github.com/cwbudde/algo-impact/dsp/core"
	"github.com/cwbudde/algo-impact/dsp/impact"
)

// Stats summarizes one render.
type Stats struct {
	Frames         int
	Blocks         int
	BypassedBlocks int
	MaxImpact      float64
	TailSeconds    float64
}

// Renderer runs planar audio through a prepared engine under an automation
// curve.
type Renderer struct {
	cfg        Config
	sampleRate float64
	engine     *impact.Engine
	block      [][]float32
}

// NewRenderer creates and prepares an engine for cfg at sampleRate.
func NewRenderer(cfg Config, sampleRate float64) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	engine, err := impact.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	if err := engine.Prepare(sampleRate, cfg.BlockSize); err != nil {
		return nil, fmt.Errorf("prepare engine: %w", err)
	}
	engine.SetImpact(cfg.ImpactAt(0))
	engine.Reset()

	return &Renderer{
		cfg:        cfg,
		sampleRate: sampleRate,
		engine:     engine,
		block: [][]float32{
			make([]float32, cfg.BlockSize),
			make([]float32, cfg.BlockSize),
		},
	}, nil
}

// Engine returns the underlying engine.
func (r *Renderer) Engine() *impact.Engine { return r.engine }

// Process renders in (mono or stereo) followed by TailSeconds of silence and
// returns stereo output. Mono input is duplicated to both channels.
func (r *Renderer) Process(in [][]float64) ([][]float64, Stats, error) {
	var left, right []float64
	switch len(in) {
	case monoChannels:
		left, right = in[0], in[0]
	case stereoChannels:
		left, right = in[0], in[1]
		if len(left) != len(right) {
			return nil, Stats{}, fmt.Errorf("render: channel lengths differ: %d vs %d", len(left), len(right))
		}
	default:
		return nil, Stats{}, fmt.Errorf("render: unsupported channel count %d", len(in))
	}

	inFrames := len(left)
	total := inFrames + int(r.cfg.TailSeconds*r.sampleRate)
	out := [][]float64{make([]float64, total), make([]float64, total)}
	copy(out[0], left)
	copy(out[1], right)

	stats := Stats{Frames: total}
	for start := 0; start < total; start += r.cfg.BlockSize {
		end := min(start+r.cfg.BlockSize, total)
		n := end - start

		r.engine.SetImpact(r.cfg.ImpactAt(float64(start) / r.sampleRate))

		block := [][]float32{r.block[0][:n], r.block[1][:n]}
		core.Narrow(block[0], out[0][start:end])
		core.Narrow(block[1], out[1][start:end])
		r.engine.ProcessBlock(block)
		core.Widen(out[0][start:end], block[0])
		core.Widen(out[1][start:end], block[1])

		stats.Blocks++
		if r.engine.Bypassed() {
			stats.BypassedBlocks++
		}
		stats.MaxImpact = max(stats.MaxImpact, r.engine.SmoothedImpact())
	}
	stats.TailSeconds = r.engine.TailSeconds()

	return out, stats, nil
}

// RenderAudio renders a with cfg and returns stereo audio at the same sample
// rate and cfg.BitDepth.
func RenderAudio(cfg Config, a *Audio) (*Audio, Stats, error) {
	if a == nil || a.SampleRate <= 0 {
		return nil, Stats{}, fmt.Errorf("%w: missing sample rate", ErrInvalidWAV)
	}
	r, err := NewRenderer(cfg, float64(a.SampleRate))
	if err != nil {
		return nil, Stats{}, err
	}
	out, stats, err := r.Process(a.Channels)
	if err != nil {
		return nil, Stats{}, err
	}
	return &Audio{SampleRate: a.SampleRate, BitDepth: cfg.BitDepth, Channels: out}, stats, nil
}
